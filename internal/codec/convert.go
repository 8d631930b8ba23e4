package codec

import (
	"context"
	"fmt"
	"io"

	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/danmuck/dxftags/internal/dxf/tagio"
	"github.com/rs/zerolog/log"
)

// Result summarises one Convert call.
type Result struct {
	Stats
	Revision string `json:"revision"`
	Written  int    `json:"written"`
}

// Convert reads an ASCII DXF stream from r and writes it to w at rev.
func Convert(ctx context.Context, r io.Reader, w io.Writer, rev revision.Revision, opts Options) (Result, error) {
	raw, err := tagio.Decode(r)
	if err != nil {
		return Result{}, fmt.Errorf("codec: read: %w", err)
	}
	doc, err := Decode(ctx, raw, opts)
	if err != nil {
		return Result{}, err
	}
	tw := tagio.NewWriter(w)
	written, err := doc.Encode(tw, rev)
	if err != nil {
		return Result{}, err
	}
	if err := tw.Flush(); err != nil {
		return Result{}, fmt.Errorf("codec: write: %w", err)
	}
	res := Result{Stats: doc.Stats, Revision: rev.String(), Written: written}
	log.Info().
		Str("revision", res.Revision).
		Int("records", res.Records).
		Int("written", res.Written).
		Int("skipped", res.Skipped).
		Int("passthrough", res.Passthrough).
		Msg("codec.Convert")
	return res, nil
}
