package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rovenna/vessel-audit/internal/config"
	"github.com/rovenna/vessel-audit/internal/model"
	"github.com/rovenna/vessel-audit/internal/repository"
	"github.com/rovenna/vessel-audit/internal/utils"
)

// allowedExt is the upload allow-list: PDFs, common image formats and
// office documents. The check is by extension; the declared content type
// is stored but not trusted for admission.
var allowedExt = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
}

// AttachmentHandler serves evidence uploads under findings and report
// uploads under audits. Files land on disk under the configured upload
// directory; metadata rows point at them.
type AttachmentHandler struct {
	Cfg      *config.Config
	Findings *repository.FindingRepo
	Audits   *repository.AuditRepo
	Evidence *repository.AttachmentRepo
	Reports  *repository.AttachmentRepo
}

func NewAttachmentHandler(cfg *config.Config, findings *repository.FindingRepo, audits *repository.AuditRepo,
	evidence, reports *repository.AttachmentRepo) *AttachmentHandler {
	return &AttachmentHandler{Cfg: cfg, Findings: findings, Audits: audits, Evidence: evidence, Reports: reports}
}

// saveUpload validates one multipart file and writes it to disk under
// uploadDir/sub with a generated name. It returns the relative stored path.
func (h *AttachmentHandler) saveUpload(fh *multipart.FileHeader, sub string) (string, error) {
	if fh.Size > h.Cfg.MaxUploadBytes {
		return "", fmt.Errorf("%s exceeds the %d byte limit", fh.Filename, h.Cfg.MaxUploadBytes)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return "", fmt.Errorf("%s has an unsupported file type", fh.Filename)
	}

	dir := filepath.Join(h.Cfg.UploadDir, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	rel := filepath.Join(sub, uuid.New().String()+ext)

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	dst, err := os.Create(filepath.Join(h.Cfg.UploadDir, rel))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return rel, nil
}

type uploadResult struct {
	Uploaded []*model.Attachment `json:"uploaded"`
	Failed   []string            `json:"failed,omitempty"`
	Message  string              `json:"message"`
}

// upload stores every file of the multipart form and records metadata via
// repo. Files that fail validation are reported back without failing the
// whole request.
func (h *AttachmentHandler) upload(c echo.Context, repo *repository.AttachmentRepo, ownerID uint64, sub string) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondErr(c, http.StatusUnauthorized, "unauthorized")
	}
	form, err := c.MultipartForm()
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "multipart form required")
	}
	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		return respondErr(c, http.StatusBadRequest, "no files in request")
	}

	res := uploadResult{}
	for _, fh := range files {
		rel, err := h.saveUpload(fh, sub)
		if err != nil {
			res.Failed = append(res.Failed, err.Error())
			continue
		}
		a := &model.Attachment{
			OwnerID:    ownerID,
			Path:       rel,
			Name:       utils.SanitizeFilename(fh.Filename),
			MimeType:   fh.Header.Get("Content-Type"),
			Size:       fh.Size,
			UploadedBy: uid,
		}
		if err := repo.Create(c.Request().Context(), a); err != nil {
			os.Remove(filepath.Join(h.Cfg.UploadDir, rel))
			res.Failed = append(res.Failed, fh.Filename+": could not be recorded")
			continue
		}
		res.Uploaded = append(res.Uploaded, a)
	}
	res.Message = fmt.Sprintf("%d of %d files uploaded", len(res.Uploaded), len(files))

	if len(res.Uploaded) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": res.Message, "data": res})
	}
	return respondCreated(c, res)
}

// remove deletes one metadata row scoped to its owner, then the file.
func (h *AttachmentHandler) remove(c echo.Context, repo *repository.AttachmentRepo, ownerID uint64) error {
	attID, err := parseID(c, "attachment_id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid attachment id")
	}
	a, err := repo.GetByID(c.Request().Context(), attID)
	if err != nil {
		return repoErr(c, err)
	}
	if a.OwnerID != ownerID {
		return respondErr(c, http.StatusNotFound, "not found")
	}
	if err := repo.Delete(c.Request().Context(), attID); err != nil {
		return repoErr(c, err)
	}
	os.Remove(filepath.Join(h.Cfg.UploadDir, a.Path))
	return respondOK(c, echo.Map{"deleted": attID})
}

// ----- finding evidence -----

func (h *AttachmentHandler) UploadEvidence(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	if _, err := h.Findings.GetByID(c.Request().Context(), id, false); err != nil {
		return repoErr(c, err)
	}
	return h.upload(c, h.Evidence, id, "findings")
}

func (h *AttachmentHandler) ListEvidence(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	if _, err := h.Findings.GetByID(c.Request().Context(), id, false); err != nil {
		return repoErr(c, err)
	}
	items, err := h.Evidence.ListByOwner(c.Request().Context(), id)
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, items)
}

func (h *AttachmentHandler) DeleteEvidence(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	return h.remove(c, h.Evidence, id)
}

// ----- audit report files -----

func (h *AttachmentHandler) UploadAuditFile(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	if _, err := h.Audits.GetByID(c.Request().Context(), id, false); err != nil {
		return repoErr(c, err)
	}
	return h.upload(c, h.Reports, id, "audits")
}

func (h *AttachmentHandler) ListAuditFiles(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	if _, err := h.Audits.GetByID(c.Request().Context(), id, false); err != nil {
		return repoErr(c, err)
	}
	items, err := h.Reports.ListByOwner(c.Request().Context(), id)
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, items)
}

func (h *AttachmentHandler) DeleteAuditFile(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	return h.remove(c, h.Reports, id)
}
