// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package docs registers the OpenAPI document served under /swagger/.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler
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
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Service status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}}
            }
        },
        "/health/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}}
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Catalog not loaded", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/movies": {
            "get": {
                "description": "Movies in catalog order. q filters by case-insensitive substring of the title.",
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "List catalog movies",
                "parameters": [
                    {"type": "string", "description": "Title filter", "name": "q", "in": "query"},
                    {"type": "integer", "description": "Page size (default 100, max 1000)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Page offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Invalid parameters", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/posters/{movieID}": {
            "get": {
                "description": "Always returns a URL: the TMDB poster, or a placeholder when there is none or the lookup failed.",
                "produces": ["application/json"],
                "tags": ["Posters"],
                "summary": "Resolve the poster URL of a catalog movie",
                "parameters": [
                    {"type": "integer", "description": "TMDB movie id", "name": "movieID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Invalid movie id", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Movie not in catalog", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/recommendations": {
            "get": {
                "description": "Exact, case-sensitive title match. Duplicate titles resolve to the first catalog entry.",
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Recommend movies similar to a title",
                "parameters": [
                    {"type": "string", "description": "Movie title", "name": "title", "in": "query", "required": true},
                    {"type": "integer", "description": "Number of results (default 10)", "name": "k", "in": "query"},
                    {"type": "boolean", "description": "Resolve poster URLs", "name": "posters", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Invalid parameters", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Title not in catalog", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/recommendations/movie/{movieID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Recommend movies similar to a TMDB movie id",
                "parameters": [
                    {"type": "integer", "description": "TMDB movie id", "name": "movieID", "in": "path", "required": true},
                    {"type": "integer", "description": "Number of results (default 10)", "name": "k", "in": "query"},
                    {"type": "boolean", "description": "Resolve poster URLs", "name": "posters", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Invalid parameters", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Movie not in catalog", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {},
                "message": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "api.APIMeta": {
            "type": "object",
            "properties": {
                "duration_ms": {"type": "integer"},
                "pagination": {"$ref": "#/definitions/api.PaginationMeta"},
                "request_id": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/api.APIError"},
                "meta": {"$ref": "#/definitions/api.APIMeta"},
                "success": {"type": "boolean"}
            }
        },
        "api.MovieDTO": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "movie_id": {"type": "integer"},
                "title": {"type": "string"}
            }
        },
        "api.PaginationMeta": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "has_more": {"type": "boolean"},
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "api.PosterDTO": {
            "type": "object",
            "properties": {
                "movie_id": {"type": "integer"},
                "poster_url": {"type": "string"}
            }
        },
        "api.RecommendationDTO": {
            "type": "object",
            "properties": {
                "movie_id": {"type": "integer"},
                "poster_url": {"type": "string"},
                "rank": {"type": "integer"},
                "score": {"type": "number", "x-nullable": true},
                "title": {"type": "string"}
            }
        },
        "api.RecommendationsResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "query": {
                    "type": "object",
                    "properties": {
                        "k": {"type": "integer"},
                        "movie_id": {"type": "integer"},
                        "title": {"type": "string"}
                    }
                },
                "results": {"type": "array", "items": {"$ref": "#/definitions/api.RecommendationDTO"}}
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
	Title:            "Cinematch API",
	Description:      "Content-based movie recommendations from a precomputed similarity matrix, with TMDB posters.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
