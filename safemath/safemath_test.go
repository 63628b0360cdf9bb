package safemath

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

func maxUint() *uint256.Int {
	return new(uint256.Int).SetAllOne()
}

func TestAdd(t *testing.T) {
	sum, err := Add(uint256.NewInt(2), uint256.NewInt(3))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if sum.Uint64() != 5 {
		t.Errorf("expected 5, got %s", sum)
	}

	t.Run("Overflow", func(t *testing.T) {
		_, err := Add(maxUint(), uint256.NewInt(1))
		if !errors.Is(err, ErrOverflow) {
			t.Errorf("expected ErrOverflow, got %v", err)
		}
	})

	t.Run("AtMax", func(t *testing.T) {
		sum, err := Add(maxUint(), uint256.NewInt(0))
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if !sum.Eq(maxUint()) {
			t.Errorf("expected max, got %s", sum)
		}
	})
}

func TestSub(t *testing.T) {
	diff, err := Sub(uint256.NewInt(5), uint256.NewInt(3))
	if err != nil {
		t.Fatalf("sub failed: %v", err)
	}
	if diff.Uint64() != 2 {
		t.Errorf("expected 2, got %s", diff)
	}

	t.Run("Underflow", func(t *testing.T) {
		_, err := Sub(uint256.NewInt(3), uint256.NewInt(5))
		if !errors.Is(err, ErrUnderflow) {
			t.Errorf("expected ErrUnderflow, got %v", err)
		}
	})

	t.Run("ToZero", func(t *testing.T) {
		diff, err := Sub(uint256.NewInt(5), uint256.NewInt(5))
		if err != nil {
			t.Fatalf("sub failed: %v", err)
		}
		if !diff.IsZero() {
			t.Errorf("expected 0, got %s", diff)
		}
	})
}

func TestMul(t *testing.T) {
	product, err := Mul(uint256.NewInt(6), uint256.NewInt(7))
	if err != nil {
		t.Fatalf("mul failed: %v", err)
	}
	if product.Uint64() != 42 {
		t.Errorf("expected 42, got %s", product)
	}

	t.Run("ZeroShortCircuit", func(t *testing.T) {
		product, err := Mul(uint256.NewInt(0), maxUint())
		if err != nil {
			t.Fatalf("mul failed: %v", err)
		}
		if !product.IsZero() {
			t.Errorf("expected 0, got %s", product)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		_, err := Mul(maxUint(), uint256.NewInt(2))
		if !errors.Is(err, ErrOverflow) {
			t.Errorf("expected ErrOverflow, got %v", err)
		}
	})
}

func TestDiv(t *testing.T) {
	quotient, err := Div(uint256.NewInt(7), uint256.NewInt(2))
	if err != nil {
		t.Fatalf("div failed: %v", err)
	}
	if quotient.Uint64() != 3 {
		t.Errorf("expected truncated quotient 3, got %s", quotient)
	}

	t.Run("ByZero", func(t *testing.T) {
		_, err := Div(uint256.NewInt(7), uint256.NewInt(0))
		if !errors.Is(err, ErrDivisionByZero) {
			t.Errorf("expected ErrDivisionByZero, got %v", err)
		}
	})
}

func TestMod(t *testing.T) {
	remainder, err := Mod(uint256.NewInt(7), uint256.NewInt(4))
	if err != nil {
		t.Fatalf("mod failed: %v", err)
	}
	if remainder.Uint64() != 3 {
		t.Errorf("expected 3, got %s", remainder)
	}

	t.Run("ByZero", func(t *testing.T) {
		_, err := Mod(uint256.NewInt(7), uint256.NewInt(0))
		if !errors.Is(err, ErrDivisionByZero) {
			t.Errorf("expected ErrDivisionByZero, got %v", err)
		}
	})
}
