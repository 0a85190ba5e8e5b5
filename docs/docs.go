// Package docs registers the OpenAPI description served under /swagger.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/sign-up": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a planner account",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/auth/sign-in": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Obtain a bearer token",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/v1/analysis/run": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Analyze the upstream plan",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AnalysisRun"}},
                    "502": {"description": "Bad Gateway"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/api/v1/analysis/evaluate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Evaluate an inline snapshot",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.EvaluateRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AnalysisRun"}},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/v1/analysis/latest": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Latest analysis run",
                "parameters": [{"type": "integer", "name": "top", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AnalysisRun"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/v1/analysis/runs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "List analysis runs",
                "parameters": [{"type": "integer", "default": 20, "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "count, runs"}}
            }
        },
        "/api/v1/analysis/runs/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Get an analysis run",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "top", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AnalysisRun"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/v1/analysis/runs/{id}/decisions": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["decisions"],
                "summary": "Record a decision",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.DecisionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Decision"}},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/v1/decisions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["decisions"],
                "summary": "List decisions",
                "parameters": [
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"},
                    {"enum": ["ACCEPT", "REJECT"], "type": "string", "name": "action", "in": "query"},
                    {"type": "string", "name": "run_id", "in": "query"}
                ],
                "responses": {"200": {"description": "count, decisions"}}
            }
        }
    },
    "definitions": {
        "handlers.authCredentials": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "handlers.EvaluateRequest": {
            "type": "object",
            "properties": {
                "shape": {"type": "string", "example": "kera"},
                "orders": {"type": "array", "items": {"type": "object"}},
                "machines": {"type": "array", "items": {"type": "object"}},
                "schedule": {"type": "array", "items": {"type": "object"}},
                "now": {"type": "string", "example": "2025-03-15T08:00:00Z"},
                "persist": {"type": "boolean"}
            }
        },
        "handlers.DecisionRequest": {
            "type": "object",
            "required": ["rank", "action"],
            "properties": {
                "rank": {"type": "integer", "example": 0},
                "action": {"type": "string", "example": "ACCEPT"},
                "note": {"type": "string"}
            }
        },
        "models.Recommendation": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "subject_id": {"type": "string"},
                "reason": {"type": "string"},
                "suggested_action": {"type": "string"},
                "severity": {"type": "string"},
                "operation_name": {"type": "string"}
            }
        },
        "models.Diagnostic": {
            "type": "object",
            "properties": {
                "collection": {"type": "string"},
                "index": {"type": "integer"},
                "record_id": {"type": "string"},
                "field": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "models.AnalysisRun": {
            "type": "object",
            "properties": {
                "run_id": {"type": "string"},
                "evaluated_at": {"type": "string"},
                "created_at": {"type": "string"},
                "origin": {"type": "string"},
                "recommendations": {"type": "array", "items": {"$ref": "#/definitions/models.Recommendation"}},
                "diagnostics": {"type": "array", "items": {"$ref": "#/definitions/models.Diagnostic"}},
                "fixed_orders": {"type": "array", "items": {"type": "string"}},
                "counts": {"type": "object"}
            }
        },
        "models.Decision": {
            "type": "object",
            "properties": {
                "decision_id": {"type": "string"},
                "run_id": {"type": "string"},
                "rank": {"type": "integer"},
                "action": {"type": "string"},
                "note": {"type": "string"},
                "decided_by": {"type": "integer"},
                "decided_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Production Advisor API",
	Description:      "Ranked idle, overload and urgency recommendations for a production plan.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
