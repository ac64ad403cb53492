package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "FreeWeek API",
        "description": "Group availability scheduling: weekly heatmaps and candidate session windows",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Authentication", "description": "Accounts and token lifecycle"},
        {"name": "Friends", "description": "Friend graph management"},
        {"name": "Availability", "description": "Stored free-time spans"},
        {"name": "Settings", "description": "Grid and presentation preferences"},
        {"name": "Templates", "description": "Reusable day templates"},
        {"name": "Sessions", "description": "Week aggregation and candidate windows"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Username taken"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token pair", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "New token pair"},
                    "401": {"description": "Invalid refresh token"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke refresh token",
                "responses": {
                    "204": {"description": "Revoked"}
                }
            }
        },
        "/friends": {
            "get": {
                "tags": ["Friends"],
                "summary": "List friends",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Friend list", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/friends/requests": {
            "post": {
                "tags": ["Friends"],
                "summary": "Send friend request",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Request created"},
                    "404": {"description": "No such user"}
                }
            }
        },
        "/friends/requests/accept": {
            "post": {
                "tags": ["Friends"],
                "summary": "Accept friend request",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Accepted"},
                    "404": {"description": "No pending request"}
                }
            }
        },
        "/friends/{username}": {
            "delete": {
                "tags": ["Friends"],
                "summary": "Remove friend",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "username", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Removed"}
                }
            }
        },
        "/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "List stored spans overlapping [from, to)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "integer"},
                    {"name": "to", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Spans", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Availability"],
                "summary": "Replace spans inside a range",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Stored spans"}
                }
            }
        },
        "/settings": {
            "get": {
                "tags": ["Settings"],
                "summary": "Get preferences",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Settings", "schema": {"$ref": "#/definitions/UserSettings"}}
                }
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Replace preferences",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Settings"},
                    "400": {"description": "Unknown timezone or colormap"}
                }
            }
        },
        "/templates": {
            "get": {
                "tags": ["Templates"],
                "summary": "List day templates",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Templates"}
                }
            },
            "post": {
                "tags": ["Templates"],
                "summary": "Create day template",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/templates/{id}": {
            "put": {
                "tags": ["Templates"],
                "summary": "Update day template",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Updated"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Templates"],
                "summary": "Delete day template",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/templates/{id}/apply": {
            "post": {
                "tags": ["Templates"],
                "summary": "Apply template to a day",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Replaced day spans"}
                }
            }
        },
        "/sessions/compute": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Compute group week view",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ComputeSessionsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Heatmap, dim mask and ranked windows", "schema": {"$ref": "#/definitions/ComputeSessionsResponse"}},
                    "400": {"description": "Unknown timezone"},
                    "403": {"description": "Group member is not an accepted friend"}
                }
            }
        },
        "/sessions/export": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Export session plan as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered document"}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "display_name": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "UserSettings": {
            "type": "object",
            "properties": {
                "timezone": {"type": "string"},
                "clock": {"type": "string", "enum": ["12", "24"]},
                "week_start": {"type": "string", "enum": ["sun", "mon"]},
                "heatmap": {"type": "string"}
            }
        },
        "ComputeSessionsRequest": {
            "type": "object",
            "properties": {
                "members": {"type": "array", "items": {"type": "string"}},
                "week_offset": {"type": "integer"},
                "max_missing": {"type": "integer"},
                "min_hours": {"type": "number"},
                "sort": {"type": "string", "enum": ["most", "earliest-week", "latest-week", "earliest", "latest", "longest"]}
            }
        },
        "ComputeSessionsResponse": {
            "type": "object",
            "properties": {
                "week_from": {"type": "integer"},
                "week_to": {"type": "integer"},
                "timezone": {"type": "string"},
                "week_start": {"type": "string"},
                "heatmap": {"type": "string"},
                "members": {"type": "array", "items": {"type": "string"}},
                "slots": {"type": "array", "items": {"$ref": "#/definitions/SlotCell"}},
                "windows": {"type": "array", "items": {"$ref": "#/definitions/SessionWindow"}},
                "empty_state": {"type": "string"},
                "generation": {"type": "integer"}
            }
        },
        "SlotCell": {
            "type": "object",
            "properties": {
                "epoch": {"type": "integer"},
                "count": {"type": "integer"},
                "color": {"type": "string"},
                "dim": {"type": "boolean"}
            }
        },
        "SessionWindow": {
            "type": "object",
            "properties": {
                "start_epoch": {"type": "integer"},
                "end_epoch": {"type": "integer"},
                "duration_slots": {"type": "integer"},
                "participants": {"type": "array", "items": {"type": "string"}},
                "missing": {"type": "array", "items": {"type": "string"}},
                "time_range": {"type": "string"},
                "invitation": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
