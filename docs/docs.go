// Package docs holds the OpenAPI description served at /docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "Service banner",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/detect": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Detector"],
                "summary": "Classify text as AI-generated or human-written",
                "parameters": [
                    {
                        "description": "Text to analyze",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/server.TextRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Detection result, or an error message for empty input or failed analysis", "schema": {"$ref": "#/definitions/aidetect.Response"}},
                    "422": {"description": "Missing or malformed body", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/api/upload": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Upload"],
                "summary": "Extract text from a .txt, .pdf or .docx upload and classify it",
                "parameters": [
                    {
                        "type": "file",
                        "description": "Document to analyze",
                        "name": "file",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "Detection result, or an error message for unsupported formats", "schema": {"$ref": "#/definitions/aidetect.Response"}},
                    "413": {"description": "Upload too large", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "422": {"description": "Missing file or extraction failure", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/api/humanize": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Humanizer"],
                "summary": "Paraphrase text so it reads more naturally",
                "parameters": [
                    {
                        "description": "Text to rewrite",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/server.TextRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Rewritten text", "schema": {"$ref": "#/definitions/humanize.Result"}},
                    "422": {"description": "Missing or malformed body", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "500": {"description": "Backend failure", "schema": {"$ref": "#/definitions/server.DetailResponse"}}
                }
            }
        }
    },
    "definitions": {
        "server.TextRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {"text": {"type": "string"}}
        },
        "server.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "detail": {"type": "string"}}
        },
        "server.DetailResponse": {
            "type": "object",
            "properties": {"detail": {"type": "string"}}
        },
        "aidetect.Verdict": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "score": {"type": "number"},
                "ai_likelihood": {"type": "string", "enum": ["High", "Medium", "Low"]}
            }
        },
        "aidetect.SentenceResult": {
            "type": "object",
            "properties": {
                "sentence": {"type": "string"},
                "label": {"type": "string"},
                "score": {"type": "number"},
                "ai_likelihood": {"type": "string", "enum": ["High", "Medium", "Low"]}
            }
        },
        "aidetect.Response": {
            "type": "object",
            "properties": {
                "overall": {"$ref": "#/definitions/aidetect.Verdict"},
                "sentences": {"type": "array", "items": {"$ref": "#/definitions/aidetect.SentenceResult"}},
                "chunks_analyzed": {"type": "integer"},
                "chunks_skipped": {"type": "integer"},
                "sentences_skipped": {"type": "integer"}
            }
        },
        "humanize.Result": {
            "type": "object",
            "properties": {
                "original_text": {"type": "string"},
                "humanized_text": {"type": "string"},
                "note": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "2.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "AI Text Detector API",
	Description:      "Detects AI-generated text, extracts text from documents and paraphrases text.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
