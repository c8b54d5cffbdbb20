// Package apidocs registers the OpenAPI description served under /swagger.
package apidocs

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
        "/health": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "system"
                ],
                "summary": "Service health",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.HealthResponse"
                        }
                    },
                    "503": {
                        "description": "Degraded",
                        "schema": {
                            "$ref": "#/definitions/types.HealthResponse"
                        }
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "system"
                ],
                "summary": "Request, scoring and cache counters",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/ratelimit": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "system"
                ],
                "summary": "Rate limit status for the caller",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/styles": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "catalog"
                ],
                "summary": "List delivery styles in tie-break order",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.StylesResponse"
                        }
                    }
                }
            }
        },
        "/questions": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "catalog"
                ],
                "summary": "Questionnaire form built from the installed weight table",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.QuestionsResponse"
                        }
                    },
                    "503": {
                        "description": "No weight table installed",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/score": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "scoring"
                ],
                "summary": "Classify one answer set",
                "parameters": [
                    {
                        "description": "Answers keyed by question number",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/types.ScoreRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.ScoreResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid answers",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "No weight table installed",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/score/single.csv": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "text/csv"
                ],
                "tags": [
                    "scoring"
                ],
                "summary": "Classify one answer set and download the result row",
                "parameters": [
                    {
                        "description": "Answers keyed by question number",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/types.ScoreRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "CSV attachment",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Invalid answers",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "No weight table installed",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/score/batch": {
            "post": {
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "text/csv",
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "tags": [
                    "scoring"
                ],
                "summary": "Classify every row of a responses sheet",
                "parameters": [
                    {
                        "type": "file",
                        "description": "CSV or XLSX with columns Q1..Q12",
                        "name": "responses",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "enum": [
                            "csv",
                            "xlsx"
                        ],
                        "type": "string",
                        "description": "Output format",
                        "name": "format",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Scored sheet",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Missing upload",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Sheet lacks question columns",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "No weight table installed",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/weights": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "weights"
                ],
                "summary": "Describe the installed weight table",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.WeightsResponse"
                        }
                    },
                    "503": {
                        "description": "No weight table installed",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "weights"
                ],
                "summary": "Replace the weight table in memory",
                "parameters": [
                    {
                        "type": "file",
                        "description": "CSV or XLSX weight table",
                        "name": "weights",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.WeightsResponse"
                        }
                    },
                    "400": {
                        "description": "Missing upload",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Malformed weight table",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/weights.csv": {
            "get": {
                "produces": [
                    "text/csv",
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "tags": [
                    "weights"
                ],
                "summary": "Download the installed weight table",
                "parameters": [
                    {
                        "enum": [
                            "csv",
                            "xlsx"
                        ],
                        "type": "string",
                        "description": "Output format",
                        "name": "format",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Weight table",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "503": {
                        "description": "No weight table installed",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/weights/reload": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "weights"
                ],
                "summary": "Reload the weight table from the data directory",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.WeightsResponse"
                        }
                    },
                    "503": {
                        "description": "No weight table on disk",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/calibrate": {
            "post": {
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "weights"
                ],
                "summary": "Fit weights from labelled case studies",
                "parameters": [
                    {
                        "type": "file",
                        "description": "CSV or XLSX with Q1..Q12 and expected_style",
                        "name": "cases",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "number",
                        "description": "Ridge penalty, default 1",
                        "name": "alpha",
                        "in": "formData"
                    },
                    {
                        "type": "boolean",
                        "description": "Map expected styles onto the canonical set",
                        "name": "canonicalize",
                        "in": "formData"
                    },
                    {
                        "type": "boolean",
                        "description": "Keep weight rows no case selected",
                        "name": "keep_unobserved",
                        "in": "formData"
                    },
                    {
                        "type": "boolean",
                        "description": "Write and install the calibrated table",
                        "name": "install",
                        "in": "formData"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.CalibrateResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid options or missing upload",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Malformed case sheet",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "No base weight table",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/results": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "results"
                ],
                "summary": "Most recent stored results",
                "parameters": [
                    {
                        "type": "integer",
                        "default": 50,
                        "description": "Maximum rows",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "count": {
                                    "type": "integer"
                                },
                                "results": {
                                    "type": "array",
                                    "items": {
                                        "$ref": "#/definitions/database.StoredResult"
                                    }
                                }
                            }
                        }
                    },
                    "400": {
                        "description": "Invalid limit",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Persistence disabled",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/results/stats": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "results"
                ],
                "summary": "Recommendation counts per style",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "total": {
                                    "type": "integer"
                                },
                                "styles": {
                                    "type": "array",
                                    "items": {
                                        "$ref": "#/definitions/database.StyleCount"
                                    }
                                }
                            }
                        }
                    },
                    "500": {
                        "description": "Persistence disabled",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/results/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "results"
                ],
                "summary": "Fetch one stored result",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Result id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/database.StoredResult"
                        }
                    },
                    "404": {
                        "description": "Unknown id",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Persistence disabled",
                        "schema": {
                            "$ref": "#/definitions/errors.ErrorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "analysis.StyleScore": {
            "type": "object",
            "properties": {
                "style": {
                    "type": "string"
                },
                "score": {
                    "type": "number"
                }
            }
        },
        "analysis.LookupMiss": {
            "type": "object",
            "properties": {
                "question": {
                    "type": "integer"
                },
                "key": {
                    "type": "string"
                }
            }
        },
        "analysis.StyleInfo": {
            "type": "object",
            "properties": {
                "style": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                }
            }
        },
        "analysis.FormOption": {
            "type": "object",
            "properties": {
                "key": {
                    "type": "string"
                },
                "label": {
                    "type": "string"
                }
            }
        },
        "analysis.FormQuestion": {
            "type": "object",
            "properties": {
                "question": {
                    "type": "integer"
                },
                "text": {
                    "type": "string"
                },
                "default": {
                    "type": "string"
                },
                "options": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/analysis.FormOption"
                    }
                }
            }
        },
        "analysis.CalibrationReport": {
            "type": "object",
            "properties": {
                "cases": {
                    "type": "integer"
                },
                "features": {
                    "type": "integer"
                },
                "alpha": {
                    "type": "number"
                },
                "solver": {
                    "type": "string"
                },
                "malformed": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "unobserved": {
                    "type": "array",
                    "items": {
                        "type": "object"
                    }
                },
                "training_accuracy": {
                    "type": "number"
                },
                "residuals": {
                    "type": "array",
                    "items": {
                        "type": "object"
                    }
                }
            }
        },
        "database.StoredResult": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "answers": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                },
                "scores": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/analysis.StyleScore"
                    }
                },
                "recommended_style": {
                    "type": "string"
                },
                "weights_fingerprint": {
                    "type": "string"
                }
            }
        },
        "database.StyleCount": {
            "type": "object",
            "properties": {
                "style": {
                    "type": "string"
                },
                "count": {
                    "type": "integer"
                }
            }
        },
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "details": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                },
                "request_id": {
                    "type": "string"
                },
                "timestamp": {
                    "type": "string"
                }
            }
        },
        "types.ScoreRequest": {
            "type": "object",
            "required": [
                "answers"
            ],
            "properties": {
                "answers": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                },
                "persist": {
                    "type": "boolean"
                }
            }
        },
        "types.ScoreResponse": {
            "type": "object",
            "properties": {
                "scores": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/analysis.StyleScore"
                    }
                },
                "recommended_style": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "misses": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/analysis.LookupMiss"
                    }
                },
                "result_id": {
                    "type": "string"
                },
                "weights": {
                    "type": "string"
                },
                "cache_hit": {
                    "type": "boolean"
                },
                "processed_at": {
                    "type": "string"
                }
            }
        },
        "types.StylesResponse": {
            "type": "object",
            "properties": {
                "styles": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/analysis.StyleInfo"
                    }
                }
            }
        },
        "types.QuestionsResponse": {
            "type": "object",
            "properties": {
                "questions": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/analysis.FormQuestion"
                    }
                },
                "weights": {
                    "type": "string"
                },
                "source": {
                    "type": "string"
                }
            }
        },
        "types.WeightsResponse": {
            "type": "object",
            "properties": {
                "source": {
                    "type": "string"
                },
                "fingerprint": {
                    "type": "string"
                },
                "rows": {
                    "type": "integer"
                },
                "missing_styles": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "types.CalibrateResponse": {
            "type": "object",
            "properties": {
                "report": {
                    "$ref": "#/definitions/analysis.CalibrationReport"
                },
                "installed": {
                    "type": "boolean"
                },
                "weights": {
                    "$ref": "#/definitions/types.WeightsResponse"
                }
            }
        },
        "types.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "timestamp": {
                    "type": "string"
                },
                "version": {
                    "type": "string"
                },
                "weights": {
                    "$ref": "#/definitions/types.WeightsResponse"
                },
                "checks": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "MethodMatch API",
	Description:      "Classifies construction project questionnaires into a recommended delivery style and calibrates the weight table from case studies.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
