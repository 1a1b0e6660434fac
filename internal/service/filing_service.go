package service

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"ngo-filer/internal/models"
	"ngo-filer/pkg/config"

	"go.uber.org/zap"
)

const (
	projectNameMax = 20
	donorNameMax   = 15
	vendorNameMax  = 30
	invoiceRefMax  = 20

	defaultExtension = "pdf"
	nameSeparator    = "__"
)

type FilingResult struct {
	Info  models.FilingInfo
	Audit []models.AuditEntry
}

type FilingService struct {
	profile *config.Profile
	now     func() time.Time
	logger  *zap.Logger
}

func NewFilingService(profile *config.Profile, logger *zap.Logger) *FilingService {
	return &FilingService{
		profile: profile,
		now:     time.Now,
		logger:  logger,
	}
}

func (s *FilingService) WithClock(now func() time.Time) *FilingService {
	c := *s
	c.now = now
	return &c
}

// GenerateFilingInfo derives the folder path, file name and initial status.
// The same inputs always produce the same result.
func (s *FilingService) GenerateFilingInfo(
	fields *models.ParsedFields,
	cls ClassificationResult,
	validation models.ValidationResult,
	ext string,
) FilingResult {
	now := s.now().UTC()
	status := InitialStatus(validation.Flags)

	info := models.FilingInfo{
		FolderPath: s.folderPath(fields, cls.Context),
		FileName:   s.fileName(fields, cls.Context, status, ext, now),
		Status:     status,
	}

	return FilingResult{
		Info: info,
		Audit: []models.AuditEntry{{
			Step:      "file",
			Detail:    fmt.Sprintf("path=%s, name=%s, status=%s", info.FolderPath, info.FileName, info.Status),
			Timestamp: now,
		}},
	}
}

// InitialStatus routes any HIGH or MEDIUM flag to human review.
func InitialStatus(flags []models.ValidationFlag) models.Status {
	if models.HasSeverity(flags, models.SeverityHigh) || models.HasSeverity(flags, models.SeverityMedium) {
		return models.StatusNeedsReview
	}
	return models.StatusDraft
}

func (s *FilingService) folderPath(fields *models.ParsedFields, ctx models.NGOContext) string {
	project := "NoProject"
	if ctx.ProjectCode != "" {
		name, ok := s.profile.Projects[ctx.ProjectCode]
		if !ok {
			name = "Unknown"
		}
		project = safeCode(ctx.ProjectCode) + "-" + truncateRunes(safeSegment(name), projectNameMax)
	}

	grant := "NoGrant"
	if ctx.GrantCode != "" {
		donor := "Unknown"
		if g, ok := s.profile.Grants[ctx.GrantCode]; ok && g.Donor != "" {
			donor = g.Donor
		}
		grant = safeCode(ctx.GrantCode) + "-" + truncateRunes(safeSegment(donor), donorNameMax)
	}

	return path.Join(
		ctx.FiscalYear,
		project,
		grant,
		vendorSegment(fields.Vendor.DisplayName),
		fields.DocType.Label(),
	)
}

func (s *FilingService) fileName(fields *models.ParsedFields, ctx models.NGOContext, status models.Status, ext string, now time.Time) string {
	issue := now
	if fields.Dates.Issue != nil {
		issue = *fields.Dates.Issue
	}

	invoice := truncateRunes(sanitizeName(fields.Invoice.Number), invoiceRefMax)
	if invoice == "" {
		invoice = "NOREF"
	}
	project := safeCode(ctx.ProjectCode)
	if project == "" {
		project = "NOPROJ"
	}
	grant := safeCode(ctx.GrantCode)
	if grant == "" {
		grant = "NOGRANT"
	}

	parts := []string{
		issue.Format("2006-01-02"),
		vendorSegment(fields.Vendor.DisplayName),
		invoice,
		project,
		grant,
		strconv.FormatInt(int64(fields.Amounts.GrandTotal), 10) + normalizeCurrency(fields.Currency),
		string(status),
	}
	return strings.Join(parts, nameSeparator) + "." + normalizeExtension(ext)
}

func vendorSegment(name string) string {
	v := truncateRunes(sanitizeName(name), vendorNameMax)
	if v == "" {
		return "unknown_vendor"
	}
	return v
}

// safeCode keeps a code's case but drops anything that is not a word character.
func safeCode(code string) string {
	return nonWord.ReplaceAllString(strings.TrimSpace(code), "")
}

// safeSegment keeps display names readable while removing path separators.
func safeSegment(name string) string {
	return strings.NewReplacer("/", "_", `\`, "_").Replace(strings.TrimSpace(name))
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	ext = nonWord.ReplaceAllString(ext, "")
	if ext == "" {
		return defaultExtension
	}
	return ext
}

// ReplaceFileNameStatus rewrites the last "__" component before the extension.
// Names without a status component are returned unchanged.
func ReplaceFileNameStatus(fileName string, status models.Status) string {
	base, ext := fileName, ""
	if i := strings.LastIndex(fileName, "."); i >= 0 {
		base, ext = fileName[:i], fileName[i:]
	}

	parts := strings.Split(base, nameSeparator)
	if len(parts) < 2 {
		return fileName
	}
	parts[len(parts)-1] = string(status)
	return strings.Join(parts, nameSeparator) + ext
}
