package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-graphviz"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/beaconnet/pkg/errors"
	"github.com/matzehuels/beaconnet/pkg/observability"
)

// Format is an output format.
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// Layout is a Graphviz layout engine.
type Layout string

const (
	// LayoutNeato honours pinned node positions; used for the fibre network.
	LayoutNeato Layout = "neato"
	// LayoutDot ranks nodes hierarchically; used for the beam forest.
	LayoutDot Layout = "dot"
)

// ParseFormats splits a comma-separated list such as "svg,png" and checks
// every entry.
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" {
			continue
		}
		switch f {
		case FormatDOT, FormatSVG, FormatPNG:
			out = append(out, f)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want dot, svg or png)", part)
		}
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no output format given")
	}
	return out, nil
}

// graphvizMu serializes every call into go-graphviz. Its wasm runtime keeps
// process-wide state that is not safe for concurrent use.
var graphvizMu sync.Mutex

// Render lays out a DOT document and returns it in the requested format.
// FormatDOT returns the input unchanged. Render is safe for concurrent use;
// Graphviz work itself runs one call at a time.
func Render(ctx context.Context, dot string, layout Layout, format Format) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}

	graphvizMu.Lock()
	defer graphvizMu.Unlock()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()
	if layout == LayoutNeato {
		gv.SetLayout(graphviz.NEATO)
	} else {
		gv.SetLayout(graphviz.DOT)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
	}
	if format == FormatSVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

// RenderAll renders dot in every requested format. Formats are fanned out on
// an errgroup; DOT passthrough and SVG post-processing overlap, while the
// Graphviz layouts queue on graphvizMu. The view name is only used for
// observability events.
func RenderAll(ctx context.Context, view, dot string, layout Layout, formats []Format) (map[Format][]byte, error) {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	hooks := observability.Render()
	start := time.Now()
	hooks.OnRenderStart(ctx, view, names)

	var mu sync.Mutex
	out := make(map[Format][]byte, len(formats))
	g, gctx := errgroup.WithContext(ctx)
	for _, f := range formats {
		g.Go(func() error {
			data, err := Render(gctx, dot, layout, f)
			if err != nil {
				return err
			}
			mu.Lock()
			out[f] = data
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	hooks.OnRenderComplete(ctx, view, names, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one whose
// width and height match the viewBox, so browsers scale the drawing.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
