// Package docs registers the storefront gateway's OpenAPI document with swag.
// Regenerate with: swag init -g main.go
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
        "/auth/login": {"post": {"tags": ["Auth"], "summary": "Log in", "parameters": [{"in": "body", "name": "credentials", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}], "responses": {"200": {"description": "Logged in"}, "400": {"description": "Invalid request"}, "401": {"description": "Invalid credentials"}}}},
        "/auth/logout": {"post": {"tags": ["Auth"], "summary": "Log out", "responses": {"200": {"description": "Logged out"}}}},
        "/auth/me": {"get": {"tags": ["Auth"], "summary": "Current identity", "responses": {"200": {"description": "OK"}}}},
        "/cart": {"get": {"tags": ["Cart"], "summary": "Get cart", "responses": {"200": {"description": "Cart retrieved"}, "500": {"description": "Network error"}}}},
        "/cart/count": {"get": {"tags": ["Cart"], "summary": "Cart item count", "parameters": [{"in": "query", "name": "cached", "type": "boolean"}], "responses": {"200": {"description": "OK"}}}},
        "/cart/events": {"get": {"tags": ["Cart"], "summary": "Cart change stream", "produces": ["text/event-stream"], "responses": {"200": {"description": "event stream"}}}},
        "/cart/items": {
            "post": {"tags": ["Cart"], "summary": "Add item to cart", "parameters": [{"in": "body", "name": "item", "required": true, "schema": {"$ref": "#/definitions/models.AddItemRequest"}}], "responses": {"200": {"description": "Item added"}, "400": {"description": "Invalid request"}}},
            "patch": {"tags": ["Cart"], "summary": "Update item quantity", "parameters": [{"in": "body", "name": "item", "required": true, "schema": {"$ref": "#/definitions/models.UpdateItemRequest"}}], "responses": {"200": {"description": "Cart updated"}, "404": {"description": "Cart item not found"}}}
        },
        "/checkout": {"get": {"tags": ["Checkout"], "summary": "Get checkout", "responses": {"200": {"description": "OK"}}}},
        "/checkout/draft": {"patch": {"tags": ["Checkout"], "summary": "Edit checkout draft", "responses": {"200": {"description": "OK"}, "409": {"description": "Submission in flight"}}}},
        "/checkout/next": {"post": {"tags": ["Checkout"], "summary": "Advance checkout step", "responses": {"200": {"description": "OK"}, "400": {"description": "Step incomplete"}}}},
        "/checkout/back": {"post": {"tags": ["Checkout"], "summary": "Go back one checkout step", "responses": {"200": {"description": "OK"}}}},
        "/checkout/preview": {"get": {"tags": ["Checkout"], "summary": "Price preview", "responses": {"200": {"description": "OK"}}}},
        "/checkout/submit": {"post": {"tags": ["Checkout"], "summary": "Place order", "responses": {"200": {"description": "Order placed"}, "400": {"description": "Validation failed"}, "409": {"description": "Submission in flight"}, "500": {"description": "Order or payment failed"}}}},
        "/orders/confirmation": {"get": {"tags": ["Orders"], "summary": "Order confirmation", "responses": {"200": {"description": "OK"}, "404": {"description": "No recent order"}}}},
        "/payment/redirect": {"get": {"tags": ["Payment"], "summary": "Hand off to the payment gateway", "responses": {"200": {"description": "eSewa form"}, "303": {"description": "Khalti redirect"}, "404": {"description": "No pending payment"}}}},
        "/payment/status": {"get": {"tags": ["Payment"], "summary": "Payment landing", "parameters": [{"in": "query", "name": "data", "type": "string"}, {"in": "query", "name": "pidx", "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/payment/failure": {"get": {"tags": ["Payment"], "summary": "Payment cancelled", "responses": {"200": {"description": "OK"}}}}
    },
    "definitions": {
        "models.LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "models.AddItemRequest": {"type": "object", "required": ["productId", "quantity"], "properties": {"productId": {"type": "integer"}, "name": {"type": "string"}, "imagePath": {"type": "string"}, "unitPrice": {"type": "number"}, "quantity": {"type": "integer"}, "color": {"type": "string"}, "storage": {"type": "string"}}},
        "models.UpdateItemRequest": {"type": "object", "required": ["productId", "quantity"], "properties": {"productId": {"type": "integer"}, "color": {"type": "string"}, "storage": {"type": "string"}, "quantity": {"type": "integer"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8081",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Modeva Storefront API",
	Description:      "Cart, checkout and payment gateway for the Modeva storefront",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
