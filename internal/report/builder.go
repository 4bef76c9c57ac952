package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/talkincode/bodega/config"
	"github.com/talkincode/bodega/internal/domain"
)

// Report is one prepared statistics pass over a product snapshot.
type Report struct {
	Title       string           `json:"title"`
	Lang        string           `json:"lang"`
	Products    []domain.Product `json:"-"`
	Slices      []ChartSlice     `json:"slices"`
	Summary     []string         `json:"summary"`
	Stats       Stats            `json:"stats"`
	Chart       []byte           `json:"-"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// Artifact is one rendered report file.
type Artifact struct {
	Name        string
	Format      string
	ContentType string
	Data        []byte
}

// UnsupportedFormatError is returned for an export format with no renderer.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported report format %q", e.Format)
}

type Builder struct {
	Title     string
	Lang      string
	Colors    ColorScheme
	ChartSize int
	Renderers []Renderer
	Now       func() time.Time
}

func NewBuilder(cfg config.ReportConfig) *Builder {
	return &Builder{
		Title:     cfg.Title,
		Lang:      cfg.Lang,
		Colors:    SchemeByName(cfg.Colors),
		ChartSize: DefaultChartSize,
		Renderers: DefaultRenderers(),
		Now:       time.Now,
	}
}

// Prepare aggregates the snapshot and draws its chart. It does no other I/O.
func (b *Builder) Prepare(products []domain.Product) (*Report, error) {
	snapshot := make([]domain.Product, len(products))
	copy(snapshot, products)
	r := &Report{
		Title:       b.Title,
		Lang:        b.Lang,
		Products:    snapshot,
		Slices:      Aggregate(snapshot, b.Colors),
		Summary:     Summarize(snapshot),
		Stats:       ComputeStats(snapshot),
		GeneratedAt: b.now(),
	}
	chart, err := RenderPieChart(r.Slices, b.ChartSize)
	if err != nil {
		return nil, err
	}
	r.Chart = chart
	return r, nil
}

func (b *Builder) renderer(format string) (Renderer, error) {
	for _, rd := range b.Renderers {
		if strings.EqualFold(rd.Format(), format) {
			return rd, nil
		}
	}
	return nil, &UnsupportedFormatError{Format: format}
}

// Build renders the requested formats, every format when none is given, and
// returns once all of them completed. Artifacts keep the requested order.
func (b *Builder) Build(ctx context.Context, products []domain.Product, formats ...string) ([]Artifact, error) {
	if len(formats) == 0 {
		for _, rd := range b.Renderers {
			formats = append(formats, rd.Format())
		}
	}
	renderers := make([]Renderer, len(formats))
	for i, format := range formats {
		rd, err := b.renderer(format)
		if err != nil {
			return nil, err
		}
		renderers[i] = rd
	}

	r, err := b.Prepare(products)
	if err != nil {
		return nil, err
	}

	stamp := r.GeneratedAt.Format("20060102-150405")
	artifacts := make([]Artifact, len(renderers))
	g, gctx := errgroup.WithContext(ctx)
	for i, rd := range renderers {
		i, rd := i, rd
		g.Go(func() error {
			data, err := rd.Render(gctx, r)
			if err != nil {
				return errors.Wrapf(err, "render %s", rd.Format())
			}
			artifacts[i] = Artifact{
				Name:        fmt.Sprintf("reporte-%s.%s", stamp, rd.Format()),
				Format:      rd.Format(),
				ContentType: rd.ContentType(),
				Data:        data,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// WriteDir saves the artifacts under dir and returns their paths.
func WriteDir(dir string, artifacts []Artifact) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &domain.IOError{Path: dir, Err: err}
	}
	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		p := filepath.Join(dir, a.Name)
		if err := os.WriteFile(p, a.Data, 0o644); err != nil {
			return paths, &domain.IOError{Path: p, Err: err}
		}
		paths = append(paths, p)
	}
	zap.L().Info("report written",
		zap.String("namespace", "report"),
		zap.String("dir", dir),
		zap.Int("files", len(paths)),
	)
	return paths, nil
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}
