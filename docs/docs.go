// Package docs registers the OpenAPI document served under /swagger/.
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
        "/api/v1/lecturer.Delete": {
            "post": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "description": "Remove a lecturer by id; deleting an absent id succeeds",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lecturer"],
                "summary": "Delete a lecturer",
                "parameters": [
                    {"description": "JSON-RPC request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/jsonrpcx.RequestT-handlers_DeleteLecturerRequest"}}
                ],
                "responses": {
                    "200": {"description": "Deletion acknowledged", "schema": {"$ref": "#/definitions/jsonrpcx.ResponseT-handlers_DeleteLecturerResponse"}},
                    "400": {"description": "Invalid request parameters", "schema": {"$ref": "#/definitions/jsonrpcx.ErrorResponse"}},
                    "401": {"description": "Authentication required, or a lecturer targeting another record", "schema": {"$ref": "#/definitions/jsonrpcx.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/jsonrpcx.ErrorResponse"}}
                }
            }
        },
        "/api/v1/lecturer.Get": {
            "post": {
                "description": "Return one lecturer by id; an absent id yields a LecturerNotFound (-32004) error",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lecturer"],
                "summary": "Get a lecturer",
                "parameters": [
                    {"description": "JSON-RPC request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/jsonrpcx.RequestT-handlers_GetLecturerRequest"}}
                ],
                "responses": {
                    "200": {"description": "Lecturer", "schema": {"$ref": "#/definitions/jsonrpcx.ResponseT-lecturer_Lecturer"}},
                    "400": {"description": "Invalid params or lecturer not found", "schema": {"$ref": "#/definitions/jsonrpcx.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/jsonrpcx.ErrorResponse"}}
                }
            }
        },
        "/api/v1/lecturer.List": {
            "post": {
                "description": "Return every stored lecturer",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lecturer"],
                "summary": "List lecturers",
                "parameters": [
                    {"description": "JSON-RPC request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/jsonrpcx.RequestT-handlers_ListLecturerRequest"}}
                ],
                "responses": {
                    "200": {"description": "All lecturers", "schema": {"$ref": "#/definitions/jsonrpcx.ResponseT-handlers_ListLecturerResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/jsonrpcx.ErrorResponse"}}
                }
            }
        },
        "/api/v1/lecturer.Patch": {
            "post": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "description": "Apply an RFC 7386 merge patch to the stored lecturer; the id cannot be changed",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lecturer"],
                "summary": "Partially update a lecturer",
                "parameters": [
                    {"description": "JSON-RPC request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/jsonrpcx.RequestT-handlers_PatchLecturerRequest"}}
                ],
                "responses": {
                    "200": {"description": "Patched lecturer", "schema": {"$ref": "#/definitions/jsonrpcx.ResponseT-lecturer_Lecturer"}},
                    "400": {"description": "Invalid params or lecturer not found", "schema": {"$ref": "#/definitions/jsonrpcx.ErrorResponse"}},
                    "401": {"description": "Authentication required, or a lecturer targeting another record", "schema": {"$ref": "#/definitions/jsonrpcx.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/jsonrpcx.ErrorResponse"}}
                }
            }
        },
        "/api/v1/lecturer.Save": {
            "post": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "description": "Upsert by id; a lecturer without an id gets a generated one",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lecturer"],
                "summary": "Create or replace a lecturer",
                "parameters": [
                    {"description": "JSON-RPC request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/jsonrpcx.RequestT-lecturer_Lecturer"}}
                ],
                "responses": {
                    "200": {"description": "Stored lecturer", "schema": {"$ref": "#/definitions/jsonrpcx.ResponseT-lecturer_Lecturer"}},
                    "400": {"description": "Invalid request parameters", "schema": {"$ref": "#/definitions/jsonrpcx.ErrorResponse"}},
                    "401": {"description": "Authentication required, or a lecturer targeting another record", "schema": {"$ref": "#/definitions/jsonrpcx.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/jsonrpcx.ErrorResponse"}}
                }
            }
        },
        "/api/v1/lecturer/all": {
            "get": {
                "produces": ["application/json"],
                "tags": ["lecturer-rest"],
                "summary": "List lecturers (REST)",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handlers.LegacyLecturer"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.RESTError"}}
                }
            }
        },
        "/api/v1/lecturer/delete/{id}": {
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["lecturer-rest"],
                "summary": "Delete a lecturer (REST)",
                "parameters": [
                    {"type": "string", "description": "Lecturer id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.RESTError"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.RESTError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.RESTError"}}
                }
            }
        },
        "/api/v1/lecturer/get/{id}": {
            "get": {
                "description": "Responds 200 with the lecturer, or 200 with null when the id is unknown",
                "produces": ["application/json"],
                "tags": ["lecturer-rest"],
                "summary": "Get a lecturer (REST)",
                "parameters": [
                    {"type": "string", "description": "Lecturer id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.LegacyLecturer"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.RESTError"}}
                }
            }
        },
        "/api/v1/server.Info": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["server"],
                "summary": "Server information",
                "parameters": [
                    {"description": "JSON-RPC request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/jsonrpcx.RequestT-map_string_interface"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/jsonrpcx.ResponseT-handlers_ServerInfoResponse"}}
                }
            }
        },
        "/transferlecturer": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Called by the auth-service when a lecturer account is created",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lecturer-rest"],
                "summary": "Upsert a lecturer (REST)",
                "parameters": [
                    {"description": "Lecturer document", "name": "lecturer", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LegacyLecturer"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.LegacyLecturer"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.RESTError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.RESTError"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.RESTError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.RESTError"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.DeleteLecturerRequest": {
            "type": "object",
            "properties": {"id": {"type": "string", "example": "6650f1c2a1b2c3d4e5f60718"}}
        },
        "handlers.DeleteLecturerResponse": {
            "type": "object",
            "properties": {"deleted": {"type": "boolean"}, "id": {"type": "string"}}
        },
        "handlers.GetLecturerRequest": {
            "type": "object",
            "properties": {"id": {"type": "string", "example": "6650f1c2a1b2c3d4e5f60718"}}
        },
        "handlers.LegacyLecturer": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "bio": {"type": "string"},
                "courses": {"type": "array", "items": {"type": "string"}},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "ppic": {"type": "string"},
                "socialMedia": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handlers.ListLecturerRequest": {
            "type": "object"
        },
        "handlers.ListLecturerResponse": {
            "type": "object",
            "properties": {
                "lecturers": {"type": "array", "items": {"$ref": "#/definitions/lecturer.Lecturer"}},
                "total": {"type": "integer"}
            }
        },
        "handlers.PatchLecturerRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "6650f1c2a1b2c3d4e5f60718"},
                "patch": {"description": "Patch is an RFC 7386 merge patch applied to the stored record", "type": "object"}
            }
        },
        "handlers.RESTError": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handlers.ServerInfoResponse": {
            "type": "object",
            "properties": {
                "environment": {"type": "string"},
                "events_enabled": {"type": "boolean"},
                "service": {"type": "string"},
                "storage_driver": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "jsonrpcx.Error": {
            "type": "object",
            "properties": {"code": {"type": "integer"}, "data": {}, "message": {"type": "string"}}
        },
        "jsonrpcx.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/jsonrpcx.Error"},
                "id": {},
                "jsonrpc": {"type": "string", "example": "2.0"}
            }
        },
        "jsonrpcx.RequestT-handlers_DeleteLecturerRequest": {
            "type": "object",
            "properties": {"id": {}, "jsonrpc": {"type": "string", "example": "2.0"}, "method": {"type": "string"}, "params": {"$ref": "#/definitions/handlers.DeleteLecturerRequest"}}
        },
        "jsonrpcx.RequestT-handlers_GetLecturerRequest": {
            "type": "object",
            "properties": {"id": {}, "jsonrpc": {"type": "string", "example": "2.0"}, "method": {"type": "string"}, "params": {"$ref": "#/definitions/handlers.GetLecturerRequest"}}
        },
        "jsonrpcx.RequestT-handlers_ListLecturerRequest": {
            "type": "object",
            "properties": {"id": {}, "jsonrpc": {"type": "string", "example": "2.0"}, "method": {"type": "string"}, "params": {"$ref": "#/definitions/handlers.ListLecturerRequest"}}
        },
        "jsonrpcx.RequestT-handlers_PatchLecturerRequest": {
            "type": "object",
            "properties": {"id": {}, "jsonrpc": {"type": "string", "example": "2.0"}, "method": {"type": "string"}, "params": {"$ref": "#/definitions/handlers.PatchLecturerRequest"}}
        },
        "jsonrpcx.RequestT-lecturer_Lecturer": {
            "type": "object",
            "properties": {"id": {}, "jsonrpc": {"type": "string", "example": "2.0"}, "method": {"type": "string"}, "params": {"$ref": "#/definitions/lecturer.Lecturer"}}
        },
        "jsonrpcx.RequestT-map_string_interface": {
            "type": "object",
            "properties": {"id": {}, "jsonrpc": {"type": "string", "example": "2.0"}, "method": {"type": "string"}, "params": {"type": "object", "additionalProperties": {}}}
        },
        "jsonrpcx.ResponseT-handlers_DeleteLecturerResponse": {
            "type": "object",
            "properties": {"id": {}, "jsonrpc": {"type": "string", "example": "2.0"}, "result": {"$ref": "#/definitions/handlers.DeleteLecturerResponse"}}
        },
        "jsonrpcx.ResponseT-handlers_ListLecturerResponse": {
            "type": "object",
            "properties": {"id": {}, "jsonrpc": {"type": "string", "example": "2.0"}, "result": {"$ref": "#/definitions/handlers.ListLecturerResponse"}}
        },
        "jsonrpcx.ResponseT-handlers_ServerInfoResponse": {
            "type": "object",
            "properties": {"id": {}, "jsonrpc": {"type": "string", "example": "2.0"}, "result": {"$ref": "#/definitions/handlers.ServerInfoResponse"}}
        },
        "jsonrpcx.ResponseT-lecturer_Lecturer": {
            "type": "object",
            "properties": {"id": {}, "jsonrpc": {"type": "string", "example": "2.0"}, "result": {"$ref": "#/definitions/lecturer.Lecturer"}}
        },
        "lecturer.Lecturer": {
            "type": "object",
            "properties": {
                "bio": {"type": "string"},
                "courses": {"type": "array", "items": {"type": "string"}},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "ppic": {"type": "string"},
                "social_media": {"type": "array", "items": {"type": "string"}}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "x-api-key",
            "in": "header"
        },
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT issued by the auth-service.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Lecturer Service API",
	Description:      "Lecturer records for the LMS: JSON-RPC 2.0 methods, REST compatibility routes and a live change stream.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
