package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestOKPage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OKPage(c, []int{1, 2}, 21, 2, 10)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Pagination Pagination `json:"pagination"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Pagination.TotalPages != 3 {
		t.Errorf("totalPages 期望 3，得到 %d", resp.Data.Pagination.TotalPages)
	}
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.DELETE("/x", func(c *gin.Context) { NoContent(c) })
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/x", nil))

	if w.Code != http.StatusNoContent {
		t.Errorf("期望 204，得到 %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("204 不应携带响应体，得到 %q", w.Body.String())
	}
}

func TestErrorWithDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorWithDetails(c, http.StatusConflict, 15003, "时间段重叠", map[string]string{"startTime": "10:00:00"})

	if w.Code != http.StatusConflict {
		t.Fatalf("期望 409，得到 %d", w.Code)
	}
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != 15003 || resp.Details == nil {
		t.Errorf("响应不符合预期: %+v", resp)
	}
}
