// Package docs registers the OpenAPI document served under /swagger/.
// Keep it in step with the swag annotations on the controllers.
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
        "/registrations": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Issues one ticket of the given template to the attendee. The response data is always the registration outcome.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["registrations"],
                "summary": "Register an attendee",
                "parameters": [
                    {"description": "Registration", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/controllers.OutcomeResponse"}},
                    "400": {"description": "INVALID_TARGET, INVALID_REQUEST or malformed body", "schema": {"$ref": "#/definitions/controllers.OutcomeResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "TEMPLATE_NOT_FOUND", "schema": {"$ref": "#/definitions/controllers.OutcomeResponse"}},
                    "409": {"description": "ALREADY_REGISTERED or CAPACITY_EXCEEDED", "schema": {"$ref": "#/definitions/controllers.OutcomeResponse"}},
                    "500": {"description": "INVALID_STATE or IO_FAILURE", "schema": {"$ref": "#/definitions/controllers.OutcomeResponse"}}
                }
            }
        },
        "/templates": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Creates a sellable ticket template with a fixed capacity. Omit session_id for an event-level template.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["templates"],
                "summary": "Create a ticket template",
                "parameters": [
                    {"description": "Template", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.CreateTemplateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/controllers.CreateTemplateSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "409": {"description": "error.code: conflict", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Deletes the template identified by the query parameters. Issued tickets are kept.",
                "produces": ["application/json"],
                "tags": ["templates"],
                "summary": "Delete a ticket template",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "event_id", "in": "query", "required": true},
                    {"type": "string", "description": "Session ID (UUID)", "name": "session_id", "in": "query"},
                    {"type": "string", "description": "GENERAL, VIP, STUDENT or EARLY_BIRD", "name": "ticket_type", "in": "query", "required": true},
                    {"type": "string", "description": "Decimal price", "name": "price", "in": "query", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/templates/availability": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns capacity, issued tickets and remaining seats for one template.",
                "produces": ["application/json"],
                "tags": ["templates"],
                "summary": "Template availability",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "event_id", "in": "query", "required": true},
                    {"type": "string", "description": "Session ID (UUID)", "name": "session_id", "in": "query"},
                    {"type": "string", "description": "GENERAL, VIP, STUDENT or EARLY_BIRD", "name": "ticket_type", "in": "query", "required": true},
                    {"type": "string", "description": "Decimal price", "name": "price", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.AvailabilitySuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/tickets": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Filters tickets by event, session, status and attendee, ordered by issue time. total_value sums the price of every matching ticket.",
                "produces": ["application/json"],
                "tags": ["tickets"],
                "summary": "List tickets",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "event_id", "in": "query"},
                    {"type": "string", "description": "Session ID (UUID)", "name": "session_id", "in": "query"},
                    {"type": "string", "description": "active or cancelled", "name": "status", "in": "query"},
                    {"type": "string", "description": "Attendee ID (UUID)", "name": "attendee_id", "in": "query"},
                    {"type": "integer", "default": 1, "description": "Page (1-based)", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.ListTicketsSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/tickets/{ticketID}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Cancels the attendee's active ticket and returns its seat to the template.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["registrations"],
                "summary": "Cancel a ticket",
                "parameters": [
                    {"type": "string", "description": "Ticket ID (UUID)", "name": "ticketID", "in": "path", "required": true},
                    {"description": "Ticket holder", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.CancelTicketRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.OutcomeResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "409": {"description": "NOT_REGISTERED", "schema": {"$ref": "#/definitions/controllers.OutcomeResponse"}},
                    "500": {"description": "INVALID_STATE or IO_FAILURE", "schema": {"$ref": "#/definitions/controllers.OutcomeResponse"}}
                }
            }
        }
    },
    "definitions": {
        "controllers.RegisterRequest": {
            "type": "object",
            "properties": {
                "attendee_id": {"type": "string"},
                "target_id": {"type": "string"},
                "event_id": {"type": "string"},
                "session_id": {"type": "string"},
                "ticket_type": {"type": "string"},
                "price": {"type": "string"}
            }
        },
        "controllers.CancelTicketRequest": {
            "type": "object",
            "properties": {
                "attendee_id": {"type": "string"}
            }
        },
        "controllers.CreateTemplateRequest": {
            "type": "object",
            "properties": {
                "event_id": {"type": "string"},
                "session_id": {"type": "string"},
                "ticket_type": {"type": "string"},
                "price": {"type": "string"},
                "capacity": {"type": "integer"}
            }
        },
        "controllers.OutcomeResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.RegistrationOutcome"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.CreateTemplateSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.TicketTemplate"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.AvailabilitySuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.TemplateAvailability"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.ListTicketsSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.TicketListData"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.TicketListData": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.TicketDisplay"}},
                "pagination": {"$ref": "#/definitions/helpers.PaginationMeta"},
                "total_value": {"type": "string"}
            }
        },
        "domain.RegistrationOutcome": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "operation_type": {"type": "string"},
                "attendee_id": {"type": "string"},
                "target_id": {"type": "string"},
                "ticket_id": {"type": "string"},
                "detailed_error": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "domain.TemplateKey": {
            "type": "object",
            "properties": {
                "event_id": {"type": "string"},
                "session_id": {"type": "string"},
                "ticket_type": {"type": "string"},
                "price": {"type": "string"}
            }
        },
        "domain.TicketTemplate": {
            "type": "object",
            "properties": {
                "key": {"$ref": "#/definitions/domain.TemplateKey"},
                "capacity": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        },
        "domain.TemplateAvailability": {
            "type": "object",
            "properties": {
                "key": {"$ref": "#/definitions/domain.TemplateKey"},
                "capacity": {"type": "integer"},
                "assigned": {"type": "integer"},
                "remaining": {"type": "integer"}
            }
        },
        "domain.TicketDisplay": {
            "type": "object",
            "properties": {
                "ticket_id": {"type": "string"},
                "attendee_id": {"type": "string"},
                "event_id": {"type": "string"},
                "session_id": {"type": "string"},
                "ticket_type": {"type": "string"},
                "price": {"type": "string"},
                "status": {"type": "string"},
                "issued_at": {"type": "string"}
            }
        },
        "helpers.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "helpers.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "helpers.PaginationMeta": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "has_next": {"type": "boolean"},
                "has_previous": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Ticket Inventory API",
	Description:      "Ticket templates, registrations and the filtered ticket view.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
