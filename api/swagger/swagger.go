package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "TABI API",
        "description": "Workforce overtime (HE) scheduling and distribution",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Matricula login"},
        {"name": "Records", "description": "Schedule record lifecycle"},
        {"name": "Groups", "description": "Grouping, validation and allocation"},
        {"name": "Assignments", "description": "Per-record assignment ledger"},
        {"name": "Transfer", "description": "CSV import and CSV/PDF export"},
        {"name": "Roster", "description": "Organizational hierarchy"},
        {"name": "Dashboard", "description": "Aggregate load views"},
        {"name": "Audit", "description": "Audit trail"},
        {"name": "Admin", "description": "Demo administration"}
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate a roster member",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/records": {
            "get": {
                "tags": ["Records"],
                "summary": "List schedule records",
                "parameters": [
                    {"name": "start", "in": "query", "type": "string"},
                    {"name": "end", "in": "query", "type": "string"},
                    {"name": "segment", "in": "query", "type": "string"},
                    {"name": "operation", "in": "query", "type": "string"},
                    {"name": "interval", "in": "query", "type": "string"},
                    {"name": "hc_min", "in": "query", "type": "integer"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "include_expired", "in": "query", "type": "boolean"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Records"],
                "summary": "Create draft records, one per interval",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRecordRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/records/publish": {
            "post": {
                "tags": ["Records"],
                "summary": "Publish every draft record",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/records/{id}": {
            "get": {
                "tags": ["Records"],
                "summary": "Fetch one record",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Records"],
                "summary": "Edit a record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateRecordRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Records"],
                "summary": "Remove a record and its assignments",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Removed"}}
            }
        },
        "/records/{id}/assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List a record's assignments",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/records/{id}/assignments/{assignmentId}": {
            "put": {
                "tags": ["Assignments"],
                "summary": "Change an assignment's minutes",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "assignmentId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EditAssignmentRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Over budget"}}
            },
            "delete": {
                "tags": ["Assignments"],
                "summary": "Remove an assignment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "assignmentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "Removed"}}
            }
        },
        "/groups": {
            "get": {
                "tags": ["Groups"],
                "summary": "List record groups with validation stamps",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/groups/validate": {
            "post": {
                "tags": ["Groups"],
                "summary": "Validate one or more groups",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidateGroupsRequest"}}
                ],
                "responses": {"200": {"description": "Validated"}, "409": {"description": "Invalid transition"}}
            }
        },
        "/groups/simulate": {
            "post": {
                "tags": ["Groups"],
                "summary": "Generate demo assignments for a group",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SimulateRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/groups/allocate": {
            "post": {
                "tags": ["Groups"],
                "summary": "Distribute collaborator time over a group",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AllocateRequest"}}
                ],
                "responses": {
                    "200": {"description": "Committed"},
                    "400": {"description": "Per-collaborator cap exceeded"},
                    "422": {"description": "Insufficient capacity"}
                }
            }
        },
        "/transfer/template": {
            "get": {
                "tags": ["Transfer"],
                "summary": "Download the import template",
                "produces": ["text/csv"],
                "responses": {"200": {"description": "CSV template"}}
            }
        },
        "/transfer/import": {
            "get": {
                "tags": ["Transfer"],
                "summary": "Show the unconfirmed import buffer",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Transfer"],
                "summary": "Upload a CSV for preview",
                "consumes": ["multipart/form-data"],
                "parameters": [{"name": "file", "in": "formData", "required": true, "type": "file"}],
                "responses": {"200": {"description": "Preview"}}
            },
            "delete": {
                "tags": ["Transfer"],
                "summary": "Discard the previewed import",
                "responses": {"204": {"description": "Discarded"}}
            }
        },
        "/transfer/import/confirm": {
            "post": {
                "tags": ["Transfer"],
                "summary": "Confirm the previewed import",
                "responses": {"200": {"description": "Imported"}}
            }
        },
        "/transfer/export/csv": {
            "get": {
                "tags": ["Transfer"],
                "summary": "Export filtered records as CSV",
                "produces": ["text/csv"],
                "responses": {"200": {"description": "CSV export"}}
            }
        },
        "/transfer/export/pdf": {
            "get": {
                "tags": ["Transfer"],
                "summary": "Export filtered records as PDF",
                "produces": ["application/pdf"],
                "responses": {"200": {"description": "PDF export"}}
            }
        },
        "/roster": {
            "get": {
                "tags": ["Roster"],
                "summary": "List roster members",
                "parameters": [
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "gerente", "in": "query", "type": "string"},
                    {"name": "coordenador", "in": "query", "type": "string"},
                    {"name": "supervisor", "in": "query", "type": "string"},
                    {"name": "q", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/roster/supervisors": {
            "post": {
                "tags": ["Roster"],
                "summary": "Enroll a new supervisor",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddSupervisorRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/roster/{matricula}": {
            "get": {
                "tags": ["Roster"],
                "summary": "Fetch one roster member",
                "parameters": [{"name": "matricula", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Planned vs assigned load by segment, day and period",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/dashboard/realized": {
            "post": {
                "tags": ["Dashboard"],
                "summary": "Ingest realized minutes per segment",
                "responses": {"204": {"description": "Accepted"}}
            }
        },
        "/audit": {
            "get": {
                "tags": ["Audit"],
                "summary": "List audit entries, newest first",
                "parameters": [{"name": "limit", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/reset": {
            "post": {
                "tags": ["Admin"],
                "summary": "Wipe all state and reseed demo data",
                "responses": {"200": {"description": "Reset"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["matricula", "password"],
            "properties": {
                "matricula": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateRecordRequest": {
            "type": "object",
            "required": ["start_date", "intervals", "hc_requested"],
            "properties": {
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "dmm": {"type": "string"},
                "segment": {"type": "string"},
                "operation": {"type": "string"},
                "intervals": {"type": "array", "items": {"type": "string"}},
                "hc_requested": {"type": "integer"},
                "motivo": {"type": "string"}
            }
        },
        "UpdateRecordRequest": {
            "type": "object",
            "properties": {
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "dmm": {"type": "string"},
                "segment": {"type": "string"},
                "operation": {"type": "string"},
                "interval_start": {"type": "string"},
                "hc_requested": {"type": "integer"},
                "motivo": {"type": "string"}
            }
        },
        "ValidateGroupsRequest": {
            "type": "object",
            "required": ["keys", "supervisors", "aprovador"],
            "properties": {
                "keys": {"type": "array", "items": {"type": "string"}},
                "supervisors": {"type": "array", "items": {"type": "string"}},
                "aprovador": {"type": "string"}
            }
        },
        "SimulateRequest": {
            "type": "object",
            "required": ["key"],
            "properties": {
                "key": {"type": "string"}
            }
        },
        "AllocateRequest": {
            "type": "object",
            "required": ["key", "periods", "collaborators"],
            "properties": {
                "key": {"type": "string"},
                "periods": {"type": "array", "items": {"type": "string"}},
                "collaborators": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "matricula": {"type": "string"},
                            "hours": {"type": "integer"},
                            "minutes": {"type": "integer"}
                        }
                    }
                }
            }
        },
        "EditAssignmentRequest": {
            "type": "object",
            "required": ["minutes"],
            "properties": {
                "minutes": {"type": "integer"}
            }
        },
        "AddSupervisorRequest": {
            "type": "object",
            "required": ["nome", "gerenteId", "coordenadorId"],
            "properties": {
                "nome": {"type": "string"},
                "gerenteId": {"type": "string"},
                "coordenadorId": {"type": "string"}
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
