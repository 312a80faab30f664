// Package docs registers the SALLY OpenAPI document with swag so that
// echo-swagger can serve it.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange a Firebase ID token for SALLY tokens",
                "security": [],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "Access token; refresh token set as cookie", "schema": {"$ref": "#/definitions/TokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["auth"],
                "summary": "Rotate the refresh cookie and issue a new access token",
                "security": [],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Revoke the refresh token and clear the cookie",
                "security": [],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["auth"],
                "summary": "Current user with tenant summary",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/tenants/register": {
            "post": {
                "tags": ["tenants"],
                "summary": "Register a fleet company for approval",
                "security": [],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterTenantRequest"}}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/Error"}},
                    "409": {"description": "Subdomain or email taken", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/tenants/check-subdomain/{subdomain}": {
            "get": {
                "tags": ["tenants"],
                "summary": "Check subdomain availability",
                "security": [],
                "parameters": [{"in": "path", "name": "subdomain", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tenants": {
            "get": {
                "tags": ["tenants"],
                "summary": "List tenants (SUPER_ADMIN)",
                "parameters": [
                    {"in": "query", "name": "status", "type": "string", "enum": ["PENDING_APPROVAL", "ACTIVE", "REJECTED"]},
                    {"$ref": "#/parameters/limit"},
                    {"$ref": "#/parameters/offset"}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/tenants/{id}": {
            "get": {
                "tags": ["tenants"],
                "summary": "Get a tenant (SUPER_ADMIN)",
                "parameters": [{"$ref": "#/parameters/id"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/tenants/{id}/approve": {
            "post": {
                "tags": ["tenants"],
                "summary": "Approve a pending tenant (SUPER_ADMIN)",
                "parameters": [{"$ref": "#/parameters/id"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Tenant not pending", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/tenants/{id}/reject": {
            "post": {
                "tags": ["tenants"],
                "summary": "Reject a pending tenant (SUPER_ADMIN)",
                "parameters": [
                    {"$ref": "#/parameters/id"},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "required": ["reason"], "properties": {"reason": {"type": "string"}}}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Tenant not pending or reason missing", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/tenants/{id}/audit-logs": {
            "get": {
                "tags": ["tenants"],
                "summary": "Audit trail of a tenant (SUPER_ADMIN)",
                "parameters": [{"$ref": "#/parameters/id"}, {"$ref": "#/parameters/limit"}, {"$ref": "#/parameters/offset"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/alerts": {
            "get": {
                "tags": ["alerts"],
                "summary": "List alerts",
                "parameters": [
                    {"in": "query", "name": "status", "type": "string", "enum": ["ACTIVE", "ACKNOWLEDGED", "RESOLVED"]},
                    {"in": "query", "name": "priority", "type": "string", "enum": ["LOW", "MEDIUM", "HIGH", "CRITICAL"]},
                    {"in": "query", "name": "driver_id", "type": "string"},
                    {"in": "query", "name": "vehicle_id", "type": "string"},
                    {"$ref": "#/parameters/limit"},
                    {"$ref": "#/parameters/offset"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["alerts"],
                "summary": "Raise an alert",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAlertRequest"}}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/alerts/stream": {
            "get": {
                "tags": ["alerts"],
                "summary": "Server-sent event stream of tenant alerts; accepts ?token=",
                "produces": ["text/event-stream"],
                "parameters": [{"in": "query", "name": "token", "type": "string"}],
                "responses": {"200": {"description": "Event stream"}}
            }
        },
        "/alerts/{id}": {
            "get": {"tags": ["alerts"], "summary": "Get an alert", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/alerts/{id}/acknowledge": {
            "post": {"tags": ["alerts"], "summary": "Acknowledge an alert", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/alerts/{id}/resolve": {
            "post": {"tags": ["alerts"], "summary": "Resolve an alert", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/drivers": {
            "get": {"tags": ["drivers"], "summary": "List drivers", "parameters": [{"in": "query", "name": "status", "type": "string"}, {"$ref": "#/parameters/limit"}, {"$ref": "#/parameters/offset"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["drivers"], "summary": "Create a driver", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/DriverRequest"}}], "responses": {"201": {"description": "Created"}}}
        },
        "/drivers/export": {
            "get": {"tags": ["drivers"], "summary": "Export the roster as XLSX", "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "responses": {"200": {"description": "Workbook"}}}
        },
        "/drivers/{id}": {
            "get": {"tags": ["drivers"], "summary": "Get a driver", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["drivers"], "summary": "Update a driver", "parameters": [{"$ref": "#/parameters/id"}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/DriverRequest"}}], "responses": {"200": {"description": "OK"}, "403": {"description": "Synced read-only record"}}},
            "delete": {"tags": ["drivers"], "summary": "Delete a driver", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "Deleted"}, "403": {"description": "Synced read-only record"}}}
        },
        "/vehicles": {
            "get": {"tags": ["vehicles"], "summary": "List vehicles", "parameters": [{"$ref": "#/parameters/limit"}, {"$ref": "#/parameters/offset"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["vehicles"], "summary": "Create a vehicle", "responses": {"201": {"description": "Created"}}}
        },
        "/vehicles/{id}": {
            "get": {"tags": ["vehicles"], "summary": "Get a vehicle", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["vehicles"], "summary": "Update a vehicle", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["vehicles"], "summary": "Delete a vehicle", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/loads": {
            "get": {"tags": ["loads"], "summary": "List loads", "parameters": [{"in": "query", "name": "status", "type": "string"}, {"$ref": "#/parameters/limit"}, {"$ref": "#/parameters/offset"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["loads"], "summary": "Create a load", "responses": {"201": {"description": "Created"}}}
        },
        "/loads/{id}": {
            "get": {"tags": ["loads"], "summary": "Get a load", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}
        },
        "/loads/{id}/status": {
            "put": {"tags": ["loads"], "summary": "Move a load to a new status", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Transition not allowed"}}}
        },
        "/loads/{id}/assignment": {
            "put": {"tags": ["loads"], "summary": "Assign driver and vehicle", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}
        },
        "/loads/{id}/documents": {
            "get": {"tags": ["loads"], "summary": "List load documents with download links", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["loads"], "summary": "Upload a load document", "consumes": ["multipart/form-data"], "parameters": [{"$ref": "#/parameters/id"}, {"in": "formData", "name": "file", "type": "file", "required": true}], "responses": {"201": {"description": "Created"}}}
        },
        "/scenarios": {
            "get": {"tags": ["scenarios"], "summary": "List scenarios", "parameters": [{"in": "query", "name": "category", "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["scenarios"], "summary": "Create a scenario", "responses": {"201": {"description": "Created"}}}
        },
        "/scenarios/{id}": {
            "get": {"tags": ["scenarios"], "summary": "Get a scenario", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["scenarios"], "summary": "Delete a scenario", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/notifications": {
            "get": {"tags": ["notifications"], "summary": "List own notifications", "parameters": [{"in": "query", "name": "unread", "type": "boolean"}, {"$ref": "#/parameters/limit"}, {"$ref": "#/parameters/offset"}], "responses": {"200": {"description": "OK"}}}
        },
        "/notifications/{id}/read": {
            "post": {"tags": ["notifications"], "summary": "Mark a notification read", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "OK"}}}
        },
        "/notifications/read-all": {
            "post": {"tags": ["notifications"], "summary": "Mark all notifications read", "responses": {"200": {"description": "OK"}}}
        },
        "/users": {
            "get": {"tags": ["users"], "summary": "List tenant users", "responses": {"200": {"description": "OK"}}}
        },
        "/users/invite": {
            "post": {"tags": ["users"], "summary": "Invite a user", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/InviteUserRequest"}}], "responses": {"201": {"description": "Created"}, "409": {"description": "Email taken"}}}
        },
        "/users/{id}/deactivate": {
            "post": {"tags": ["users"], "summary": "Deactivate a user and revoke their sessions", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}
        },
        "/audit-logs": {
            "get": {"tags": ["users"], "summary": "Audit trail of the caller's tenant", "parameters": [{"$ref": "#/parameters/limit"}, {"$ref": "#/parameters/offset"}], "responses": {"200": {"description": "OK"}}}
        },
        "/integrations": {
            "get": {"tags": ["integrations"], "summary": "List integrations", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["integrations"], "summary": "Configure an integration", "responses": {"201": {"description": "Created"}}}
        },
        "/integrations/{id}": {
            "delete": {"tags": ["integrations"], "summary": "Delete an integration", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/integrations/{id}/test": {
            "post": {"tags": ["integrations"], "summary": "Test the vendor connection", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}
        },
        "/integrations/{id}/sync": {
            "post": {"tags": ["integrations"], "summary": "Pull drivers and vehicles from an ELD vendor", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}
        },
        "/admin/jobs": {
            "get": {"tags": ["admin"], "summary": "Scheduled maintenance jobs (SUPER_ADMIN)", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/jobs/{name}/run": {
            "post": {"tags": ["admin"], "summary": "Run a job now (SUPER_ADMIN)", "parameters": [{"in": "path", "name": "name", "required": true, "type": "string"}], "responses": {"202": {"description": "Accepted"}}}
        }
    },
    "parameters": {
        "id": {"in": "path", "name": "id", "required": true, "type": "string"},
        "limit": {"in": "query", "name": "limit", "type": "integer", "default": 50, "maximum": 200},
        "offset": {"in": "query", "name": "offset", "type": "integer", "default": 0}
    },
    "definitions": {
        "Error": {
            "type": "object",
            "properties": {"detail": {"type": "string"}}
        },
        "LoginRequest": {
            "type": "object",
            "required": ["firebase_token"],
            "properties": {"firebase_token": {"type": "string"}}
        },
        "TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string", "example": "Bearer"},
                "expires_in": {"type": "integer"},
                "user": {"type": "object"}
            }
        },
        "RegisterTenantRequest": {
            "type": "object",
            "required": ["company_name", "subdomain", "admin_email", "admin_first_name", "admin_last_name", "firebase_uid"],
            "properties": {
                "company_name": {"type": "string"},
                "subdomain": {"type": "string"},
                "dot_number": {"type": "string"},
                "fleet_size": {"type": "string"},
                "admin_email": {"type": "string"},
                "admin_first_name": {"type": "string"},
                "admin_last_name": {"type": "string"},
                "firebase_uid": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "CreateAlertRequest": {
            "type": "object",
            "required": ["alert_type", "category", "priority", "title", "message"],
            "properties": {
                "alert_type": {"type": "string"},
                "category": {"type": "string"},
                "priority": {"type": "string", "enum": ["LOW", "MEDIUM", "HIGH", "CRITICAL"]},
                "title": {"type": "string"},
                "message": {"type": "string"},
                "driver_id": {"type": "string"},
                "vehicle_id": {"type": "string"}
            }
        },
        "DriverRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "license_number": {"type": "string"},
                "license_state": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "status": {"type": "string", "enum": ["AVAILABLE", "ON_DUTY", "DRIVING", "OFF_DUTY", "SLEEPER"]}
            }
        },
        "InviteUserRequest": {
            "type": "object",
            "required": ["email", "first_name", "last_name", "role"],
            "properties": {
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "role": {"type": "string", "enum": ["ADMIN", "DISPATCHER", "DRIVER"]},
                "driver_id": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "SALLY API",
	Description:      "Fleet dispatch and driver operations platform.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
