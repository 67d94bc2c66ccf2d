package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"github.com/ironsheep/pbn-tools-mcp/internal/imaging"
	"github.com/ironsheep/pbn-tools-mcp/internal/pbn"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "pbn_convert").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Malformed arguments return a JSON-RPC error response with code -32000.
// Conversion failures are not JSON-RPC errors: they come back as a result
// with "success": false and a message.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Str("tool", params.Name).Err(err).Msg("tool execution failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "pbn_convert":
		return s.handleConvert(args)
	case "pbn_convert_payload":
		return s.handleConvertPayload(args)
	case "pbn_palette":
		return s.handlePalette(args)
	case "image_load":
		return s.handleImageLoad(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// ConvertResult is the outcome of pbn_convert and pbn_convert_payload.
// Images are base64-encoded PNGs.
type ConvertResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`

	// Image is the outlined composite, or the flat image when outlines
	// were not requested.
	Image        string `json:"image,omitempty"`
	PlainImage   string `json:"plain_image,omitempty"`
	OutlineImage string `json:"outline_image,omitempty"`
	PaletteImage string `json:"palette_image,omitempty"`

	Palette []pbn.PaletteEntry `json:"palette,omitempty"`

	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

// PaletteResult is the outcome of pbn_palette.
type PaletteResult struct {
	Success      bool               `json:"success"`
	Message      string             `json:"message,omitempty"`
	Palette      []pbn.PaletteEntry `json:"palette,omitempty"`
	PaletteImage string             `json:"palette_image,omitempty"`
	Width        int                `json:"width,omitempty"`
	Height       int                `json:"height,omitempty"`
	MimeType     string             `json:"mime_type,omitempty"`
}

// === Conversion Handlers ===

type convertArgs struct {
	Path           string  `json:"path"`
	ImageBase64    string  `json:"image_base64"`
	NumColors      *int    `json:"num_colors"`
	PreBlur        *bool   `json:"pre_blur"`
	IncludeOutline *bool   `json:"include_outline"`
	MaxDimension   *int    `json:"max_dimension"`
	SmoothRadius   *int    `json:"smooth_radius"`
	Seed           *uint64 `json:"seed"`
	Refresh        bool    `json:"refresh"`
}

// options merges request arguments over the server configuration.
func (a *convertArgs) options(cfg Config) pbn.Options {
	opts := cfg.Options()
	if a.NumColors != nil {
		opts.Clusters = *a.NumColors
	}
	if a.PreBlur != nil {
		opts.PreBlur = *a.PreBlur
	}
	if a.MaxDimension != nil {
		opts.MaxDimension = *a.MaxDimension
	}
	if a.SmoothRadius != nil {
		opts.SmoothRadius = *a.SmoothRadius
	}
	if a.Seed != nil {
		opts.Quantize.Seed = *a.Seed
	}
	return opts
}

func (s *Server) handleConvert(args json.RawMessage) (interface{}, error) {
	var a convertArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	img, err := s.loadSource(a.Path, a.ImageBase64, a.Refresh)
	if err != nil {
		return failedConvert(err), nil
	}

	includeOutline := a.IncludeOutline == nil || *a.IncludeOutline
	return s.convert(img, a.options(s.cfg), includeOutline), nil
}

type convertPayloadArgs struct {
	Payload string `json:"payload"`
}

func (s *Server) handleConvertPayload(args json.RawMessage) (interface{}, error) {
	var a convertPayloadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	p, err := ParsePayload(a.Payload)
	if err != nil {
		return failedConvert(err), nil
	}

	img, err := imaging.DecodeBase64(p.ImageBase64)
	if err != nil {
		return failedConvert(err), nil
	}

	opts := s.cfg.Options()
	opts.Clusters = p.NumColors
	return s.convert(img, opts, p.IncludeOutline), nil
}

func (s *Server) convert(img image.Image, opts pbn.Options, includeOutline bool) *ConvertResult {
	pipeline, err := pbn.NewPipeline(opts, s.log)
	if err != nil {
		return failedConvert(err)
	}

	res, err := pipeline.Run(img)
	if err != nil {
		s.logFailure(err, opts)
		return failedConvert(err)
	}

	out := &ConvertResult{
		Success:  true,
		Palette:  res.Entries(),
		Width:    res.Width,
		Height:   res.Height,
		MimeType: "image/png",
	}

	main := res.Flat
	if includeOutline {
		main = res.Outlined
	}

	encodings := []struct {
		dst *string
		img image.Image
	}{
		{&out.Image, main.NRGBA()},
		{&out.PlainImage, res.Flat.NRGBA()},
		{&out.OutlineImage, res.Boundary.Gray()},
		{&out.PaletteImage, res.Preview.NRGBA()},
	}
	for _, e := range encodings {
		encoded, err := imaging.EncodePNGBase64(e.img)
		if err != nil {
			return failedConvert(err)
		}
		*e.dst = encoded
	}

	return out
}

func failedConvert(err error) *ConvertResult {
	return &ConvertResult{Success: false, Message: err.Error()}
}

// logFailure records pipeline errors; bad requests log at warn level,
// clustering problems at error level.
func (s *Server) logFailure(err error, opts pbn.Options) {
	var ev *zerolog.Event
	switch {
	case errors.Is(err, pbn.ErrClusteringFailure):
		ev = s.log.Error()
	default:
		ev = s.log.Warn()
	}
	ev.Err(err).Int("num_colors", opts.Clusters).Msg("conversion failed")
}

// === Palette Handler ===

type paletteArgs struct {
	Path        string  `json:"path"`
	ImageBase64 string  `json:"image_base64"`
	NumColors   *int    `json:"num_colors"`
	PreBlur     *bool   `json:"pre_blur"`
	Seed        *uint64 `json:"seed"`
	Refresh     bool    `json:"refresh"`
}

func (s *Server) handlePalette(args json.RawMessage) (interface{}, error) {
	var a paletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	img, err := s.loadSource(a.Path, a.ImageBase64, a.Refresh)
	if err != nil {
		return &PaletteResult{Success: false, Message: err.Error()}, nil
	}

	ca := convertArgs{NumColors: a.NumColors, PreBlur: a.PreBlur, Seed: a.Seed}
	opts := ca.options(s.cfg)

	pipeline, err := pbn.NewPipeline(opts, s.log)
	if err != nil {
		return &PaletteResult{Success: false, Message: err.Error()}, nil
	}

	q, err := pipeline.Quantize(img)
	if err != nil {
		s.logFailure(err, opts)
		return &PaletteResult{Success: false, Message: err.Error()}, nil
	}

	strip, err := pbn.Preview(q.Palette, q.Counts, opts.PreviewWidth, opts.PreviewHeight)
	if err != nil {
		return &PaletteResult{Success: false, Message: err.Error()}, nil
	}
	encoded, err := imaging.EncodePNGBase64(strip.NRGBA())
	if err != nil {
		return &PaletteResult{Success: false, Message: err.Error()}, nil
	}

	return &PaletteResult{
		Success:      true,
		Palette:      pbn.DescribePalette(q.Palette, q.Counts),
		PaletteImage: encoded,
		Width:        q.Labels.W,
		Height:       q.Labels.H,
		MimeType:     "image/png",
	}, nil
}

// === Image Information Handler ===

type imageLoadArgs struct {
	Path    string `json:"path"`
	Refresh bool   `json:"refresh"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Refresh {
		s.cache.Evict(a.Path)
	}
	return imaging.LoadImageInfo(s.cache, a.Path, s.cfg.MaxDimension)
}

// loadSource resolves the image named by a file path (through the cache)
// or by inline base64 data. Exactly one must be given. With refresh set, a
// cached copy of path is dropped and the file is read again.
func (s *Server) loadSource(path, data string, refresh bool) (image.Image, error) {
	switch {
	case path != "" && data != "":
		return nil, errors.New("provide either path or image_base64, not both")
	case path != "":
		if refresh {
			s.cache.Evict(path)
		}
		return s.cache.Load(path)
	case data != "":
		return imaging.DecodeBase64(data)
	default:
		return nil, errors.New("no image provided")
	}
}
