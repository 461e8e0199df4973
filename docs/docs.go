// Package docs holds the OpenAPI document served by the Swagger UI.
// Regenerate with swag init -g cmd/server/main.go after changing handler
// annotations.
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
		"/api/v1/reviews": {
			"get": {
				"description": "Newest first. Carries a weak ETag; send it back in If-None-Match to get 304.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Reviews"
				],
				"summary": "List reviews",
				"operationId": "listReviews",
				"parameters": [
					{
						"maximum": 100,
						"minimum": 1,
						"type": "integer",
						"default": 20,
						"description": "Max reviews",
						"name": "limit",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Return 304 if ETag matches",
						"name": "If-None-Match",
						"in": "header"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.ListReviewsResponse"
						}
					},
					"304": {
						"description": "Not Modified",
						"schema": {
							"type": "string"
						}
					},
					"500": {
						"description": "Store error",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			},
			"post": {
				"description": "Requires a signed-in session. The author is taken from the session.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Reviews"
				],
				"summary": "Submit a review",
				"operationId": "createReview",
				"parameters": [
					{
						"description": "Review",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.CreateReviewRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/domain.Review"
						}
					},
					"400": {
						"description": "Validation failed",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Sign-in required",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"500": {
						"description": "Store error",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/orders": {
			"post": {
				"description": "Validates the service-request form and stores it as a pending order. With an Idempotency-Key, a retry returns the first order id.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Orders"
				],
				"summary": "Submit a service request",
				"operationId": "createOrder",
				"parameters": [
					{
						"type": "string",
						"description": "Client key for safe retries",
						"name": "Idempotency-Key",
						"in": "header"
					},
					{
						"description": "Service request",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.OrderInput"
						}
					}
				],
				"responses": {
					"200": {
						"description": "Replay of an earlier submission",
						"schema": {
							"$ref": "#/definitions/handlers.CreateOrderResponse"
						}
					},
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/handlers.CreateOrderResponse"
						}
					},
					"400": {
						"description": "Validation failed",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limited",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"500": {
						"description": "Store error",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/about": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Content"
				],
				"summary": "Company profile",
				"operationId": "getAbout",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/content.About"
						}
					}
				}
			}
		},
		"/api/v1/services": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Content"
				],
				"summary": "Service categories",
				"operationId": "listServices",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.ServicesResponse"
						}
					}
				}
			}
		},
		"/api/v1/dashboard/orders": {
			"get": {
				"security": [
					{
						"DashboardToken": []
					}
				],
				"description": "Newest orders first, normalized whatever their stored shape. With q, returns the best matches of the recent window instead.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Dashboard"
				],
				"summary": "List stored orders as receipts",
				"operationId": "listReceipts",
				"parameters": [
					{
						"type": "string",
						"description": "Search text",
						"name": "q",
						"in": "query"
					},
					{
						"maximum": 500,
						"minimum": 1,
						"type": "integer",
						"default": 100,
						"description": "Max receipts",
						"name": "limit",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.ListReceiptsResponse"
						}
					},
					"304": {
						"description": "Not modified"
					},
					"401": {
						"description": "Bad token",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"404": {
						"description": "Dashboard disabled",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"500": {
						"description": "Store error",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/dashboard/orders/import": {
			"post": {
				"security": [
					{
						"DashboardToken": []
					}
				],
				"description": "Stores any JSON object as an order, as is, adding createdAt and updatedAt. Used to move orders written by older versions of the form.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Dashboard"
				],
				"summary": "Import a legacy order document",
				"operationId": "importOrder",
				"parameters": [
					{
						"description": "Order document",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/handlers.CreateOrderResponse"
						}
					},
					"400": {
						"description": "Not a JSON object, or empty",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"500": {
						"description": "Store error",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/dashboard/orders/{id}": {
			"get": {
				"security": [
					{
						"DashboardToken": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Dashboard"
				],
				"summary": "Get one order as a receipt",
				"operationId": "getReceipt",
				"parameters": [
					{
						"type": "string",
						"description": "Order id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.ReceiptView"
						}
					},
					"404": {
						"description": "Order not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"500": {
						"description": "Store error",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/auth/google/login": {
			"get": {
				"description": "Mints a session cookie when missing and registers a sign-in attempt for it. Browsers are redirected; JSON clients get the URL.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "Start Google sign-in",
				"operationId": "login",
				"responses": {
					"200": {
						"description": "With Accept: application/json",
						"schema": {
							"$ref": "#/definitions/handlers.SignInResponse"
						}
					},
					"302": {
						"description": "Redirect to the provider",
						"schema": {
							"type": "string"
						}
					},
					"409": {
						"description": "Sign-in already in progress",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/auth/google/callback": {
			"get": {
				"description": "Completes the pending attempt. On success the session id is rotated and the browser is redirected home.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "Finish Google sign-in",
				"operationId": "authCallback",
				"parameters": [
					{
						"type": "string",
						"description": "State from Login",
						"name": "state",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"description": "Authorization code",
						"name": "code",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Provider error, e.g. access_denied",
						"name": "error",
						"in": "query"
					}
				],
				"responses": {
					"302": {
						"description": "Signed in",
						"schema": {
							"type": "string"
						}
					},
					"401": {
						"description": "Sign-in failed",
						"schema": {
							"$ref": "#/definitions/auth.Result"
						}
					}
				}
			}
		},
		"/auth/logout": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "Sign out",
				"operationId": "logout",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/auth.Result"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/auth.Result"
						}
					}
				}
			}
		},
		"/auth/me": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "Current user",
				"operationId": "me",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/auth.User"
						}
					},
					"401": {
						"description": "Not signed in",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/auth/cancel": {
			"post": {
				"description": "Clears the in-flight flag so Login can be called again.",
				"tags": [
					"Auth"
				],
				"summary": "Abandon a pending sign-in",
				"operationId": "cancelSignIn",
				"responses": {
					"204": {
						"description": "No Content",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"auth.User": {
			"type": "object",
			"properties": {
				"uid": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"photoURL": {
					"type": "string"
				}
			}
		},
		"auth.Result": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"user": {
					"$ref": "#/definitions/auth.User"
				},
				"error": {
					"type": "string"
				}
			}
		},
		"content.Value": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				}
			}
		},
		"content.Member": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"role": {
					"type": "string"
				},
				"bio": {
					"type": "string"
				},
				"skills": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		},
		"content.About": {
			"type": "object",
			"properties": {
				"team": {
					"type": "string"
				},
				"tagline": {
					"type": "string"
				},
				"members": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/content.Member"
					}
				},
				"values": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/content.Value"
					}
				}
			}
		},
		"content.Category": {
			"type": "object",
			"properties": {
				"value": {
					"type": "string"
				},
				"label": {
					"type": "string"
				}
			}
		},
		"domain.ReviewUser": {
			"type": "object",
			"properties": {
				"uid": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"photoURL": {
					"type": "string"
				}
			}
		},
		"domain.Review": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"service": {
					"type": "string"
				},
				"rating": {
					"type": "integer"
				},
				"message": {
					"type": "string"
				},
				"user": {
					"$ref": "#/definitions/domain.ReviewUser"
				},
				"createdAt": {
					"type": "string"
				}
			}
		},
		"handlers.CreateOrderResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string",
					"example": "5f0c1c8e-3b7a-4f4e-9a7e-0a4ce4a4c9d1"
				}
			}
		},
		"handlers.CreateReviewRequest": {
			"type": "object",
			"properties": {
				"service": {
					"type": "string",
					"example": "Bots para Discord"
				},
				"rating": {
					"type": "integer",
					"example": 5
				},
				"message": {
					"type": "string",
					"example": "Entrega rápida e suporte excelente."
				}
			}
		},
		"handlers.ErrorResponse": {
			"type": "object",
			"properties": {
				"request_id": {
					"type": "string",
					"example": "123e4567-e89b-12d3-a456-426614174000"
				},
				"code": {
					"type": "string",
					"example": "validation_failed"
				},
				"message": {
					"type": "string",
					"example": "Informe um e-mail válido"
				}
			}
		},
		"handlers.ListReviewsResponse": {
			"type": "object",
			"properties": {
				"reviews": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.Review"
					}
				}
			}
		},
		"handlers.ListReceiptsResponse": {
			"type": "object",
			"properties": {
				"receipts": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/handlers.ReceiptView"
					}
				},
				"count": {
					"type": "integer"
				},
				"query": {
					"type": "string"
				}
			}
		},
		"handlers.ServicesResponse": {
			"type": "object",
			"properties": {
				"categories": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/content.Category"
					}
				}
			}
		},
		"handlers.SignInResponse": {
			"type": "object",
			"properties": {
				"url": {
					"type": "string"
				}
			}
		},
		"handlers.ReceiptView": {
			"type": "object",
			"properties": {
				"orderId": {
					"type": "string"
				},
				"createdAt": {
					"type": "string"
				},
				"status": {
					"type": "string"
				},
				"customer": {
					"$ref": "#/definitions/receipt.Customer"
				},
				"service": {
					"$ref": "#/definitions/receipt.Service"
				},
				"project": {
					"$ref": "#/definitions/receipt.Project"
				},
				"requirements": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"contactMethod": {
					"type": "string"
				},
				"shape": {
					"type": "string"
				},
				"rawPayload": {
					"type": "object"
				},
				"formattedDate": {
					"type": "string",
					"example": "09/07/2025 15:05"
				},
				"budgetDisplay": {
					"type": "string",
					"example": "R$ 5.000"
				},
				"statusLabel": {
					"type": "string",
					"example": "Pendente"
				},
				"categoryLabel": {
					"type": "string",
					"example": "E-commerce"
				}
			}
		},
		"receipt.Customer": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				}
			}
		},
		"receipt.Service": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"category": {
					"type": "string"
				},
				"platform": {
					"type": "string"
				}
			}
		},
		"receipt.Project": {
			"type": "object",
			"properties": {
				"complexity": {
					"type": "string"
				},
				"timeline": {
					"type": "string"
				},
				"budget": {
					"type": "number"
				},
				"deadline": {
					"type": "string"
				}
			}
		},
		"services.OrderInput": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"service": {
					"type": "string"
				},
				"category": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"budget": {
					"type": "string"
				},
				"deadline": {
					"type": "string"
				},
				"requirements": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"platform": {
					"type": "string"
				},
				"contactMethod": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"DashboardToken": {
			"description": "Bearer token for the internal dashboard (DASHBOARD_TOKEN).",
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
	Title:            "forge-site API",
	Description:      "Reviews, service requests, sign-in and the internal order dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
