package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"db-transfer/internal/engine"
	"db-transfer/internal/schema"

	"github.com/gosuri/uiprogress"
)

// progressBar renders tuple building once the row count is known.
type progressBar struct {
	bar *uiprogress.Bar
}

func (p *progressBar) start(total int) {
	if total == 0 {
		return
	}
	uiprogress.Start()
	p.bar = uiprogress.AddBar(total).AppendCompleted().PrependElapsed()
	p.bar.PrependFunc(func(b *uiprogress.Bar) string {
		return "Converting rows: "
	})
}

func (p *progressBar) step() {
	if p.bar != nil {
		p.bar.Incr()
	}
}

func (p *progressBar) stop() {
	if p.bar != nil {
		uiprogress.Stop()
		p.bar = nil
	}
}

func printSummary(w io.Writer, r *schema.TransferResult, elapsed time.Duration) {
	icon := "✓"
	if r.Status != engine.StatusOK {
		icon = "!"
	}

	fmt.Fprintln(w, "\n📊 Summary Report:")
	fmt.Fprintf(w, "[%s] %s -> %s : %d rows fetched, %s - %s\n",
		icon, r.SourceTable, r.DestTable, r.Fetched, insertedText(r), r.Status)
	if r.DryRun && r.InsertSQL != "" {
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintln(w, r.InsertSQL)
	}
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "Time Elapsed: %s\n", elapsed.Round(time.Millisecond))
}

func insertedText(r *schema.TransferResult) string {
	switch {
	case r.DryRun, r.Status == engine.StatusNoRows:
		return "0 rows inserted"
	case r.Inserted < 0:
		return "rows inserted (count not reported by driver)"
	default:
		return fmt.Sprintf("%d rows inserted", r.Inserted)
	}
}
