package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func ctxWithQuery(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestFromContextDefaults(t *testing.T) {
	p := FromContext(ctxWithQuery(""))
	if p.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", p.Limit, DefaultLimit)
	}
	if p.Offset != 0 {
		t.Errorf("Offset = %d, want 0", p.Offset)
	}
}

func TestFromContextExplicit(t *testing.T) {
	p := FromContext(ctxWithQuery("limit=5&offset=10"))
	if p.Limit != 5 {
		t.Errorf("Limit = %d, want 5", p.Limit)
	}
	if p.Offset != 10 {
		t.Errorf("Offset = %d, want 10", p.Offset)
	}
}

func TestFromContextClampsLimit(t *testing.T) {
	p := FromContext(ctxWithQuery("limit=5000"))
	if p.Limit != MaxLimit {
		t.Errorf("Limit = %d, want %d", p.Limit, MaxLimit)
	}
}

func TestSliceBounds(t *testing.T) {
	cases := []struct {
		name   string
		params Params
		total  int
		lo, hi int
	}{
		{"first page", Params{Limit: 10, Offset: 0}, 25, 0, 10},
		{"last partial page", Params{Limit: 10, Offset: 20}, 25, 20, 25},
		{"offset past end", Params{Limit: 10, Offset: 40}, 25, 25, 25},
		{"empty", Params{Limit: 10, Offset: 0}, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lo, hi := tc.params.Slice(tc.total)
			if lo != tc.lo || hi != tc.hi {
				t.Errorf("Slice(%d) = (%d, %d), want (%d, %d)", tc.total, lo, hi, tc.lo, tc.hi)
			}
		})
	}
}

func TestNavigation(t *testing.T) {
	p := Params{Limit: 10, Offset: 10}
	if !p.HasNext(25) {
		t.Error("HasNext(25) = false, want true")
	}
	if p.HasNext(20) {
		t.Error("HasNext(20) = true, want false")
	}
	if !p.HasPrevious() {
		t.Error("HasPrevious() = false, want true")
	}
	if p.NextOffset() != 20 {
		t.Errorf("NextOffset() = %d, want 20", p.NextOffset())
	}
	if p.PreviousOffset() != 0 {
		t.Errorf("PreviousOffset() = %d, want 0", p.PreviousOffset())
	}

	first := Params{Limit: 10, Offset: 5}
	if first.PreviousOffset() != 0 {
		t.Errorf("PreviousOffset() = %d, want 0", first.PreviousOffset())
	}
}

func TestNewResponse(t *testing.T) {
	r := NewResponse([]string{"a", "b"}, 12, 2, 0)
	if !r.HasMore {
		t.Error("HasMore = false, want true")
	}
	r = NewResponse([]string{"a"}, 1, 20, 0)
	if r.HasMore {
		t.Error("HasMore = true, want false")
	}
}
