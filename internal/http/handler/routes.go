package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/pranav-027/delimited-files-excel-converter/internal/model"
	"github.com/pranav-027/delimited-files-excel-converter/internal/service"
	"github.com/pranav-027/delimited-files-excel-converter/internal/store"
)

const (
	// multipartFileField is the form field carrying the uploaded files.
	multipartFileField = "files"

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeZip  = "application/zip"
)

// convertResponse wraps the ordered outcome list of one upload batch.
type convertResponse struct {
	Results []model.ConversionOutcome `json:"results"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal; conversion and lifecycle logic lives in the
// service and store layers.
func RegisterRoutes(app *fiber.App, st store.Store, svc service.Converter, maxFileBytes int64) {
	app.Get("/health", HealthCheck(st))
	app.Get("/healthz", LivenessProbe())

	app.Post("/conversions", ConvertFiles(svc, maxFileBytes))

	app.Get("/artifacts", ListArtifacts(st))
	app.Delete("/artifacts", PurgeArtifacts(st))
	// Static segment must be registered before the :name parameter route.
	app.Get("/artifacts/archive", ArchiveArtifacts(st))
	app.Get("/artifacts/:name", DownloadArtifact(st))
}

// HealthCheck probes the artifact store.
// @Summary Health check
// @Success 200 {object} map[string]string
// @Router /health [get]
func HealthCheck(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if _, err := st.List(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ConvertFiles accepts a multipart batch (field name: files), converts each
// file and returns one outcome per file in upload order. Oversized files
// are rejected per file without aborting the batch; an empty batch is a
// request-level error.
// @Summary Convert delimited text files to xlsx
// @Accept mpfd
// @Produce json
// @Router /conversions [post]
func ConvertFiles(svc service.Converter, maxFileBytes int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILES_REQUIRED", "at least one file is required")
		}
		files := form.File[multipartFileField]
		if len(files) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILES_REQUIRED", "at least one file is required")
		}

		// Pre-validate size and readability here so the converter only
		// sees acceptable inputs; rejected slots keep their position.
		outcomes := make([]model.ConversionOutcome, len(files))
		var (
			inputs  []model.FileInput
			indices []int
		)
		for i, fh := range files {
			if maxFileBytes > 0 && fh.Size > maxFileBytes {
				outcomes[i] = model.FailureOutcome(fh.Filename,
					fmt.Sprintf("file exceeds the %d byte limit", maxFileBytes))
				continue
			}
			f, err := fh.Open()
			if err != nil {
				outcomes[i] = model.FailureOutcome(fh.Filename, "cannot open uploaded file")
				continue
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				outcomes[i] = model.FailureOutcome(fh.Filename, "cannot read uploaded file")
				continue
			}
			inputs = append(inputs, model.FileInput{DisplayName: fh.Filename, Data: data})
			indices = append(indices, i)
		}

		if len(inputs) > 0 {
			for j, outcome := range svc.ConvertBatch(c.UserContext(), inputs) {
				outcomes[indices[j]] = outcome
			}
		}

		for i := range outcomes {
			if outcomes[i].Converted {
				outcomes[i].DownloadURL = "/artifacts/" + url.PathEscape(outcomes[i].StoredName)
			}
		}
		return c.JSON(convertResponse{Results: outcomes})
	}
}

// ListArtifacts returns the names of all stored artifacts.
// @Summary List stored artifacts
// @Produce json
// @Router /artifacts [get]
func ListArtifacts(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		names, err := st.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		if names == nil {
			names = []string{}
		}
		return c.JSON(fiber.Map{"artifacts": names, "count": len(names)})
	}
}

// DownloadArtifact streams one artifact and deletes it after a successful
// transfer. An interrupted transfer leaves the artifact retrievable.
// @Summary Download a converted workbook once
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /artifacts/{name} [get]
func DownloadArtifact(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := url.PathUnescape(c.Params("name"))
		if err != nil || name == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "invalid artifact name")
		}

		ret, err := st.GetOnce(c.UserContext(), name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "artifact not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		c.Set(fiber.HeaderContentType, contentTypeXLSX)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", ret.Name))
		if err := c.Send(ret.Content); err != nil {
			ret.Abort()
			return err
		}
		return ret.Commit(c.UserContext())
	}
}

// ArchiveArtifacts zips every stored artifact into one download and deletes
// the archived artifacts after the archive is handed off. An empty store is
// a not-found condition, not an empty archive.
// @Summary Download all artifacts as a zip
// @Produce application/zip
// @Router /artifacts/archive [get]
func ArchiveArtifacts(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		arc, err := st.ArchiveAll(c.UserContext())
		if err != nil {
			if errors.Is(err, store.ErrEmpty) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "no artifacts to download")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		archiveName := fmt.Sprintf("converted-%s-%s.zip",
			time.Now().UTC().Format("20060102T150405"), uuid.NewString()[:8])
		c.Set(fiber.HeaderContentType, contentTypeZip)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", archiveName))
		if err := c.Send(arc.Data); err != nil {
			return err
		}
		return arc.Commit(c.UserContext())
	}
}

// PurgeArtifacts unconditionally removes every artifact. Cleanup is best
// effort and the operation always reports success.
// @Summary Delete all stored artifacts
// @Router /artifacts [delete]
func PurgeArtifacts(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_ = st.DeleteAll(c.UserContext())
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "deleted"})
	}
}
