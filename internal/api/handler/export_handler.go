package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/jceballos29/control-asistencia/internal/service"
	"github.com/jceballos29/control-asistencia/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportExcel 导出办公室排班配置为 Excel
// GET /api/v1/offices/:id/export.xlsx
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	officeID, ok := MustUUIDParam(c, "id")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportOfficeExcel(c.Request.Context(), officeID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeAttachment(c, buf, filename, contentTypeXLSX)
}

// ExportICS 导出办公室时间段为 iCalendar
// GET /api/v1/offices/:id/export.ics
func (h *ExportHandler) ExportICS(c *gin.Context) {
	officeID, ok := MustUUIDParam(c, "id")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportOfficeICS(c.Request.Context(), officeID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeAttachment(c, buf, filename, contentTypeICS)
}

// writeAttachment 设置下载响应头并写入文件内容
func writeAttachment(c *gin.Context, buf *bytes.Buffer, filename, contentType string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOfficeNotFound):
		response.NotFound(c, 17001, "办公室不存在")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 16001, "生成导出文件失败")
	default:
		response.InternalError(c)
	}
}
