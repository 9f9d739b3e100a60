package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"empapi/internal/service"
)

// ExportWorkbook godoc
// @Summary Download the employee roster as XLSX
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 500 {object} errorPayload
// @Router /employee/export [get]
func ExportWorkbook(svc service.ExportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := svc.WriteWorkbook(c.UserContext(), c.Response().BodyWriter())
		if err != nil {
			c.Response().ResetBody()
			return internalError(c, err, "export workbook failed")
		}
		c.Set(fiber.HeaderContentType, service.XLSXContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="employees.xlsx"`)
		c.Set("X-Export-Rows", strconv.Itoa(rows))
		return nil
	}
}

// ArchiveWorkbook godoc
// @Summary Archive the employee roster in object storage
// @Tags export
// @Produce json
// @Success 201 {object} service.ExportResult
// @Failure 503 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /employee/export [post]
func ArchiveWorkbook(svc service.ExportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Archive(c.UserContext())
		if err != nil {
			if errors.Is(err, service.ErrStorageDisabled) {
				return writeError(c, fiber.StatusServiceUnavailable, "STORAGE_DISABLED", "object storage is not configured")
			}
			return internalError(c, err, "archive workbook failed")
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}
