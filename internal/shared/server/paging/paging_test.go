package paging

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", DefaultLimit, 0},
		{"?limit=5&offset=10", 5, 10},
		{"?limit=500", MaxLimit, 0},
		{"?limit=-1&offset=-4", DefaultLimit, 0},
		{"?limit=abc&offset=xyz", DefaultLimit, 0},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/x"+tc.query, nil)
		limit, offset := FromQuery(c)
		if limit != tc.wantLimit || offset != tc.wantOffset {
			t.Fatalf("%q: got (%d,%d), want (%d,%d)", tc.query, limit, offset, tc.wantLimit, tc.wantOffset)
		}
	}
}
