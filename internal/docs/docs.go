// Package docs registers the OpenAPI document served at /docs/doc.json.
package docs

import (
	"net/url"

	"github.com/swaggo/swag"
)

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
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "definitions": {
        "Envelope": {
            "type": "object",
            "properties": {
                "statusCode": {"type": "string", "example": "200"},
                "statusMessage": {"type": "string"},
                "successful": {"type": "boolean"},
                "data": {}
            }
        },
        "Credentials": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "fullName": {"type": "string"}
            }
        },
        "Email": {
            "type": "object",
            "required": ["email"],
            "properties": {"email": {"type": "string"}}
        },
        "Review": {
            "type": "object",
            "properties": {
                "movieId": {"type": "string", "maxLength": 64},
                "content": {"type": "string"},
                "rating": {"type": "integer", "minimum": 1, "maximum": 5},
                "userId": {"type": "string"}
            }
        },
        "Comment": {
            "type": "object",
            "required": ["reviewId", "userId", "content"],
            "properties": {
                "reviewId": {"type": "string"},
                "userId": {"type": "string"},
                "content": {"type": "string"}
            }
        },
        "Contact": {
            "type": "object",
            "required": ["email", "content"],
            "properties": {
                "email": {"type": "string"},
                "content": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "subject": {"type": "string"}
            }
        }
    },
    "paths": {
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Create an account",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Credentials"}}],
            "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in with email and password",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Credentials"}}],
            "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Log out", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "body", "name": "body", "schema": {"$ref": "#/definitions/Email"}}],
            "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/auth/reset-password": {"post": {"tags": ["auth"], "summary": "Reset a forgotten password",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Email"}}],
            "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/auth/me": {"get": {"tags": ["auth"], "summary": "Current user profile", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/reviews": {"post": {"tags": ["reviews"], "summary": "Post a review",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Review"}}],
            "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/reviews/{movieId}": {"get": {"tags": ["reviews"], "summary": "Reviews of a movie",
            "parameters": [{"in": "path", "name": "movieId", "required": true, "type": "string"}],
            "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/reviews/{id}": {
            "put": {"tags": ["reviews"], "summary": "Edit a review",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Review"}}],
                "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}},
            "delete": {"tags": ["reviews"], "summary": "Delete a review",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/comments": {"post": {"tags": ["comments"], "summary": "Comment on a review",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Comment"}}],
            "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/comments/{reviewId}": {"get": {"tags": ["comments"], "summary": "Comments of a review",
            "parameters": [{"in": "path", "name": "reviewId", "required": true, "type": "string"}],
            "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/movies": {"get": {"tags": ["movies"], "summary": "Curated movie list",
            "parameters": [{"in": "query", "name": "type", "type": "string", "enum": ["now_playing", "popular", "upcoming", "top_rated"]}],
            "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/movies/search": {"get": {"tags": ["movies"], "summary": "Search movies by title",
            "parameters": [{"in": "query", "name": "query", "required": true, "type": "string"},
                {"in": "query", "name": "page", "type": "integer", "default": 1},
                {"in": "query", "name": "include_adult", "type": "boolean", "default": false},
                {"in": "query", "name": "language", "type": "string", "default": "en-US"},
                {"in": "query", "name": "primary_release_year", "type": "string"},
                {"in": "query", "name": "region", "type": "string"},
                {"in": "query", "name": "year", "type": "string"}],
            "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/movies/{id}": {"get": {"tags": ["movies"], "summary": "Movie details",
            "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
            "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/movies/{id}/trailer": {"get": {"tags": ["movies"], "summary": "Official trailer of a movie",
            "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
            "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/comms/contact": {"post": {"tags": ["comms"], "summary": "Send a contact message",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Contact"}}],
            "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/comms/subscribe": {"post": {"tags": ["comms"], "summary": "Join the mailing list",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Email"}}],
            "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/comms/unsubscribe": {"post": {"tags": ["comms"], "summary": "Leave the mailing list",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Email"}}],
            "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/admin/messages": {"get": {"tags": ["admin"], "summary": "Contact messages", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/admin/subscribers": {"get": {"tags": ["admin"], "summary": "Mailing list", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "envelope", "schema": {"$ref": "#/definitions/Envelope"}}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:9467",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Movie Review API",
	Description:      "Accounts, reviews, comments, newsletter and a movie catalog proxy.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// SetPublicHost points the document at the advertised base URL, for example
// "https://api.example.com" or "http://localhost".  A bare port is appended
// when the URL has none.
func SetPublicHost(publicHost, port string) {
	u, err := url.Parse(publicHost)
	if err != nil || u.Host == "" {
		return
	}
	host := u.Host
	if u.Port() == "" && port != "" && u.Scheme == "http" {
		host += ":" + port
	}
	SwaggerInfo.Host = host
	SwaggerInfo.Schemes = []string{u.Scheme}
}
