package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageSourceProperties are the mutually exclusive ways to pass an image.
func imageSourceProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file (PNG, JPEG or GIF). Either path or image_base64 is required.",
		},
		"image_base64": map[string]interface{}{
			"type":        "string",
			"description": "Base64-encoded image data; a data URL header is accepted.",
		},
		"refresh": refreshProperty(),
	}
}

func refreshProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Re-read the file at path instead of using the cached copy (use after the file changed on disk). Default false",
		"default":     false,
	}
}

func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "pbn_convert",
			Description: "Convert an image into a paint-by-numbers rendering. Returns the outlined image, the flat-color image, the outline-only image and a palette strip as base64 PNGs, plus the palette colors with their coverage.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(imageSourceProperties(), map[string]interface{}{
					"num_colors": map[string]interface{}{
						"type":        "integer",
						"description": "Number of palette colors. Default 15",
						"default":     DefaultNumColors,
					},
					"pre_blur": map[string]interface{}{
						"type":        "boolean",
						"description": "Apply an edge-preserving blur before reducing colors. Default true",
						"default":     true,
					},
					"include_outline": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the outlined image (true) or the flat image (false) as the main image. Default true",
						"default":     true,
					},
					"max_dimension": map[string]interface{}{
						"type":        "integer",
						"description": "Downscale so the longer side is at most this many pixels. Default 1024",
					},
					"smooth_radius": map[string]interface{}{
						"type":        "integer",
						"description": "Half-width of the speckle-removal window. Default 4",
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Seed for color clustering; equal seeds give equal palettes",
					},
				}),
			},
		},
		{
			Name:        "pbn_convert_payload",
			Description: "Convert an image given as a delimited payload 'base64|numColors|includeOutline'. Only the image part is required.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"payload": map[string]interface{}{
						"type":        "string",
						"description": "Delimited payload: <base64 image>|<numColors>|<includeOutline>",
					},
				},
				"required": []string{"payload"},
			},
		},
		{
			Name:        "pbn_palette",
			Description: "Extract the paint-by-numbers palette of an image without rendering the outlines. Returns the colors with coverage and a palette strip.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(imageSourceProperties(), map[string]interface{}{
					"num_colors": map[string]interface{}{
						"type":        "integer",
						"description": "Number of palette colors. Default 15",
						"default":     DefaultNumColors,
					},
					"pre_blur": map[string]interface{}{
						"type":        "boolean",
						"description": "Apply an edge-preserving blur before reducing colors. Default true",
						"default":     true,
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Seed for color clustering",
					},
				}),
			},
		},
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and the working size it will be converted at.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"refresh": refreshProperty(),
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
