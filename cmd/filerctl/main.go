package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"ngo-filer/internal/app"
	"ngo-filer/internal/dto"
	"ngo-filer/internal/models"
	"ngo-filer/internal/service"
	"ngo-filer/pkg/config"
	"ngo-filer/pkg/logger"

	"go.uber.org/zap"
)

const usage = `filerctl - NGO invoice and receipt filer

Usage:
  filerctl [-role ROLE] [-v] <command> [flags]

Commands:
  process     <file> [-fields FILE] [-project CODE] [-grant CODE] [-output FILE]
  query       [-project CODE] [-grant CODE] [-fiscal-year FY] [-status S] [-vendor NAME]
  stats
  report      -fiscal-year FY | -project CODE
  transition  <doc_id> -to STATUS [-actor NAME]
  approve     <doc_id> -approver NAME
  export      [-format csv|json|xlsx] [-output FILE] [filters as in query]
  audit       <doc_id>
`

type cli struct {
	app    *app.App
	role   models.Role
	out    io.Writer
	logger *zap.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("filerctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	roleName := global.String("role", string(models.RoleContributor), "role used for permission checks")
	verbose := global.Bool("v", false, "verbose logging")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	role, ok := models.ParseRole(*roleName)
	if !ok {
		fmt.Fprintf(stderr, "unknown role %q\n", *roleName)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log, err := logger.New(level, "console")
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize: %v\n", err)
		return 1
	}
	defer a.Close()

	c := &cli{app: a, role: role, out: stdout, logger: log}
	cmd, rest := global.Arg(0), global.Args()[1:]

	var cmdErr error
	switch cmd {
	case "process":
		cmdErr = c.process(ctx, rest)
	case "query":
		cmdErr = c.query(rest)
	case "stats":
		cmdErr = c.stats()
	case "report":
		cmdErr = c.report(rest)
	case "transition":
		cmdErr = c.transition(ctx, rest, false)
	case "approve":
		cmdErr = c.transition(ctx, rest, true)
	case "export":
		cmdErr = c.export(ctx, rest)
	case "audit":
		cmdErr = c.audit(ctx, rest)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		global.Usage()
		return 2
	}

	if cmdErr != nil {
		fmt.Fprintf(stderr, "Error: %v\n", cmdErr)
		return 1
	}
	return 0
}

var errPermission = errors.New("permission denied")

func (c *cli) require(p models.Permission) error {
	if !c.role.Can(p) {
		return fmt.Errorf("%w: role %s lacks %s", errPermission, c.role, p)
	}
	return nil
}

// parseInterspersed lets positional arguments come before flags.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

func (c *cli) process(ctx context.Context, args []string) error {
	if err := c.require(models.PermCreate); err != nil {
		return err
	}

	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	fieldsPath := fs.String("fields", "", "extracted fields JSON (default: <file>.json)")
	project := fs.String("project", "", "project code")
	grant := fs.String("grant", "", "grant code")
	output := fs.String("output", "", "write the full processed document JSON here")
	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return errors.New("process takes exactly one file")
	}
	path := pos[0]

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	if *fieldsPath == "" {
		*fieldsPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
	}
	raw, err := os.ReadFile(*fieldsPath)
	if err != nil {
		return fmt.Errorf("failed to read fields: %w", err)
	}
	var fields dto.ParsedFieldsRequest
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("failed to parse fields: %w", err)
	}

	doc, err := c.app.Document.Process(ctx, service.ProcessRequest{
		Content:    content,
		SourceName: filepath.Base(path),
		Fields:     fields.ToModel(),
		Hints:      models.Hints{ProjectCode: *project, GrantCode: *grant},
		Actor:      "cli:" + string(c.role),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Document ID: %s\n", doc.DocID)
	fmt.Fprintf(c.out, "Summary:     %s\n", doc.Summary)
	fmt.Fprintf(c.out, "Folder:      %s\n", doc.Filing.FolderPath)
	fmt.Fprintf(c.out, "File:        %s\n", doc.Filing.FileName)
	fmt.Fprintf(c.out, "Confidence:  %.2f\n", doc.Validation.ConfidenceScore)
	if n := len(doc.Validation.Flags); n > 0 {
		fmt.Fprintf(c.out, "\nValidation flags (%d):\n", n)
		for _, f := range doc.Validation.Flags {
			fmt.Fprintf(c.out, "  [%s] %s: %s\n", strings.ToUpper(string(f.Severity)), f.Type, f.Message)
		}
	}

	if *output != "" {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(*output, data, 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintf(c.out, "\nFull document JSON saved to %s\n", *output)
	}
	return nil
}

func filterFlags(fs *flag.FlagSet) func() models.LedgerFilters {
	project := fs.String("project", "", "project code")
	grant := fs.String("grant", "", "grant code")
	fy := fs.String("fiscal-year", "", "fiscal year, e.g. 2024-2025")
	status := fs.String("status", "", "status")
	vendor := fs.String("vendor", "", "vendor name")
	opt := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	return func() models.LedgerFilters {
		return models.LedgerFilters{
			ProjectCode: opt(*project),
			GrantCode:   opt(*grant),
			FiscalYear:  opt(*fy),
			Status:      opt(*status),
			Vendor:      opt(*vendor),
		}
	}
}

func (c *cli) query(args []string) error {
	if err := c.require(models.PermRead); err != nil {
		return err
	}
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	filters := filterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	rows := c.app.Document.Query(filters())
	fmt.Fprintf(c.out, "Results: %d document(s)\n\n", len(rows))
	if len(rows) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DOC ID\tDATE\tVENDOR\tAMOUNT\tPROJECT\tSTATUS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f %s\t%s\t%s\n",
			r.DocID, orDash(r.IssueDate), r.Vendor, r.GrandTotal, r.Currency, orDash(r.ProjectCode), r.Status)
	}
	return tw.Flush()
}

func (c *cli) stats() error {
	if err := c.require(models.PermRead); err != nil {
		return err
	}
	s := c.app.Document.SummaryStats()

	fmt.Fprintf(c.out, "Total documents: %d\n", s.TotalDocuments)
	fmt.Fprintf(c.out, "Total amount:    %.2f\n", s.TotalAmount)

	fmt.Fprintln(c.out, "\nBy status:")
	for _, k := range sortedKeys(s.ByStatus) {
		fmt.Fprintf(c.out, "  %-15s %5d\n", k, s.ByStatus[k])
	}
	printAmounts(c.out, "By project", s.ByProject)
	printAmounts(c.out, "By fiscal year", s.ByFiscalYear)
	return nil
}

func (c *cli) report(args []string) error {
	if err := c.require(models.PermRead); err != nil {
		return err
	}
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fy := fs.String("fiscal-year", "", "fiscal year, e.g. 2024-2025")
	project := fs.String("project", "", "project code")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *fy != "":
		r := c.app.Report.FiscalYearReport(*fy)
		fmt.Fprintf(c.out, "Fiscal year report: %s\n\n", r.FiscalYear)
		fmt.Fprintf(c.out, "Total documents: %d\n", r.Summary.TotalDocuments)
		fmt.Fprintf(c.out, "Total amount:    %.2f\n", r.Summary.TotalAmount)
		fmt.Fprintf(c.out, "Average amount:  %.2f\n", r.Summary.AverageAmount)
		printAmounts(c.out, "By project", r.ByProject)
		printAmounts(c.out, "By grant", r.ByGrant)
		fmt.Fprintln(c.out, "\nTop vendors:")
		for _, v := range r.TopVendors {
			fmt.Fprintf(c.out, "  %-30s %12.2f\n", v.Vendor, v.Amount)
		}
	case *project != "":
		r := c.app.Report.ProjectReport(*project)
		fmt.Fprintf(c.out, "Project report: %s\n\n", r.ProjectCode)
		fmt.Fprintf(c.out, "Total documents: %d\n", r.TotalDocuments)
		fmt.Fprintf(c.out, "Total amount:    %.2f\n", r.TotalAmount)
		printAmounts(c.out, "By grant", r.ByGrant)
		printAmounts(c.out, "By category", r.ByCategory)
	default:
		return errors.New("report needs -fiscal-year or -project")
	}
	return nil
}

func (c *cli) transition(ctx context.Context, args []string, approve bool) error {
	fs := flag.NewFlagSet("transition", flag.ContinueOnError)
	to := fs.String("to", "", "target status")
	actor := fs.String("actor", "", "name recorded in the audit trail")
	approver := fs.String("approver", "", "approver name")
	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return errors.New("expected exactly one doc_id")
	}

	target := models.StatusApproved
	name := *approver
	if !approve {
		if target, err = models.ParseStatus(*to); err != nil {
			return err
		}
		name = *actor
	}
	if name == "" && target == models.StatusApproved {
		return service.ErrApproverRequired
	}
	if name == "" {
		name = "cli:" + string(c.role)
	}

	perm := models.PermUpdate
	if target == models.StatusApproved || target == models.StatusPosted {
		perm = models.PermApprove
	}
	if err := c.require(perm); err != nil {
		return err
	}

	row, err := c.app.Document.Transition(ctx, pos[0], target, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Status:   %s\n", row.Status)
	fmt.Fprintf(c.out, "File:     %s\n", row.FileName)
	if row.Approver != "" {
		fmt.Fprintf(c.out, "Approver: %s\n", row.Approver)
	}
	return nil
}

func (c *cli) export(ctx context.Context, args []string) error {
	if err := c.require(models.PermExport); err != nil {
		return err
	}
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	formatName := fs.String("format", "csv", "csv, json or xlsx")
	output := fs.String("output", "", "output file")
	filters := filterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	format, err := service.ParseExportFormat(*formatName)
	if err != nil {
		return err
	}
	if *output == "" {
		*output = format.FileName(time.Now())
	}

	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	n, err := c.app.Export.Export(ctx, f, format, filters(), "cli:"+string(c.role))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Ledger exported to %s (%d records)\n", *output, n)
	return nil
}

func (c *cli) audit(ctx context.Context, args []string) error {
	if err := c.require(models.PermRead); err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("audit takes exactly one doc_id")
	}
	events, err := c.app.Audit.History(ctx, args[0])
	if err != nil {
		return err
	}
	for _, e := range events {
		details, _ := json.Marshal(e.Details)
		fmt.Fprintf(c.out, "%s  %-18s %-12s %s\n", e.Timestamp.Format(time.RFC3339), e.EventType, e.Actor, details)
	}
	return nil
}

func printAmounts(w io.Writer, title string, m map[string]float64) {
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, k := range sortedKeys(m) {
		fmt.Fprintf(w, "  %-15s %12.2f\n", k, m[k])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
