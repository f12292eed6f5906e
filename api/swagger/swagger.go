package swagger

import "github.com/swaggo/swag"

// docTemplate covers the routes mounted under the API prefix.
const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "DownwardEvaluations",
            "description": "Downward evaluation records and bulk submit/reset"
        },
        {
            "name": "StepApprovals",
            "description": "Stage review state machine"
        },
        {
            "name": "RevisionRequests",
            "description": "Revision request inbox and responses"
        },
        {
            "name": "Summary",
            "description": "Read-time progress, scores and activity"
        },
        {
            "name": "Health",
            "description": "Probes"
        }
    ],
    "paths": {
        "/periods/{periodId}/evaluators/{evaluatorId}/evaluatees/{employeeId}/downward/{type}/bulk-submit": {
            "post": {
                "tags": [
                    "DownwardEvaluations"
                ],
                "summary": "Submit every downward evaluation of an evaluator for one evaluatee",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "periodId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "evaluatorId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "employeeId",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Evaluatee ID"
                    },
                    {
                        "name": "type",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "enum": [
                            "primary",
                            "secondary"
                        ]
                    },
                    {
                        "name": "force",
                        "in": "query",
                        "type": "boolean",
                        "required": false,
                        "description": "Provision missing records and submit incomplete ones"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthenticated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "500": {
                        "description": "Batch rolled back",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ],
                "description": "Runs in one transaction. Records without content or score are reported as failed unless force is set."
            }
        },
        "/periods/{periodId}/evaluators/{evaluatorId}/evaluatees/{employeeId}/downward/{type}/bulk-reset": {
            "post": {
                "tags": [
                    "DownwardEvaluations"
                ],
                "summary": "Reset every downward evaluation of an evaluator for one evaluatee",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "periodId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "evaluatorId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "employeeId",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Evaluatee ID"
                    },
                    {
                        "name": "type",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "enum": [
                            "primary",
                            "secondary"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthenticated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "500": {
                        "description": "Batch rolled back",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ]
            }
        },
        "/periods/{periodId}/employees/{employeeId}/downward-evaluations": {
            "get": {
                "tags": [
                    "DownwardEvaluations"
                ],
                "summary": "List downward evaluations received by an employee",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "periodId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "employeeId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "type",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "enum": [
                            "primary",
                            "secondary"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthenticated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ]
            }
        },
        "/downward-evaluations": {
            "put": {
                "tags": [
                    "DownwardEvaluations"
                ],
                "summary": "Save content and score of one downward evaluation",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpsertDownwardEvaluationRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthenticated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Already submitted",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/downward-evaluations/{id}/submit": {
            "post": {
                "tags": [
                    "DownwardEvaluations"
                ],
                "summary": "Submit one downward evaluation",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthenticated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Content or score missing",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ]
            }
        },
        "/downward-evaluations/{id}/reset": {
            "post": {
                "tags": [
                    "DownwardEvaluations"
                ],
                "summary": "Reopen one downward evaluation",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthenticated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ]
            }
        },
        "/downward-evaluations/{id}": {
            "delete": {
                "tags": [
                    "DownwardEvaluations"
                ],
                "summary": "Cancel one downward evaluation",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Cancelled"
                    },
                    "401": {
                        "description": "Unauthenticated"
                    },
                    "403": {
                        "description": "Forbidden"
                    }
                },
                "produces": [
                    "application/json"
                ]
            }
        },
        "/periods/{periodId}/employees/{employeeId}/step-approvals": {
            "get": {
                "tags": [
                    "StepApprovals"
                ],
                "summary": "List the review status of every stage",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "periodId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "employeeId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthenticated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ]
            }
        },
        "/periods/{periodId}/employees/{employeeId}/step-approvals/{stage}": {
            "patch": {
                "tags": [
                    "StepApprovals"
                ],
                "summary": "Change the review status of a stage",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "periodId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "employeeId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "stage",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "enum": [
                            "criteria",
                            "self",
                            "primary",
                            "secondary"
                        ]
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/StepDecisionRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthenticated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Transition not allowed",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "description": "Requesting a revision requires revisionComment and opens a revision request for the stage's recipients."
            }
        },
        "/periods/{periodId}/employees/{employeeId}/summary": {
            "get": {
                "tags": [
                    "Summary"
                ],
                "summary": "Stage status, weighted score and grade for an employee",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "periodId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "employeeId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthenticated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Period not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ]
            }
        },
        "/periods/{periodId}/employees/{employeeId}/activity-logs": {
            "get": {
                "tags": [
                    "Summary"
                ],
                "summary": "Workflow activity for an employee",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "periodId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "employeeId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "type",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Activity type"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer",
                        "required": false,
                        "description": "Page size (default 50)"
                    },
                    {
                        "name": "offset",
                        "in": "query",
                        "type": "integer",
                        "required": false,
                        "description": "Offset"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthenticated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ]
            }
        },
        "/periods/{periodId}/summary-export": {
            "get": {
                "tags": [
                    "Summary"
                ],
                "summary": "Download a CSV extract of stage progress and scores for employees of a period",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "text/csv"
                ],
                "parameters": [
                    {
                        "name": "periodId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "employeeId",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi",
                        "required": true
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "enum": [
                            "csv"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Export file",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/revision-requests": {
            "post": {
                "tags": [
                    "RevisionRequests"
                ],
                "summary": "Request a revision from explicit recipients",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateRevisionRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthenticated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/revision-requests/me": {
            "get": {
                "tags": [
                    "RevisionRequests"
                ],
                "summary": "List revision requests addressed to the caller",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "periodId",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "step",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "isRead",
                        "in": "query",
                        "type": "boolean",
                        "required": false
                    },
                    {
                        "name": "isCompleted",
                        "in": "query",
                        "type": "boolean",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthenticated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ]
            }
        },
        "/revision-requests/me/unread-count": {
            "get": {
                "tags": [
                    "RevisionRequests"
                ],
                "summary": "Count unread revision requests addressed to the caller",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthenticated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ]
            }
        },
        "/revision-requests/{id}/read": {
            "patch": {
                "tags": [
                    "RevisionRequests"
                ],
                "summary": "Mark a revision request as read by the caller",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthenticated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not a recipient",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ]
            }
        },
        "/revision-requests/{id}/complete": {
            "patch": {
                "tags": [
                    "RevisionRequests"
                ],
                "summary": "Respond to a revision request as the caller",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CompleteRevisionRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthenticated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not a recipient",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Already completed",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/revision-requests/{id}/recipients/{recipientId}/complete": {
            "patch": {
                "tags": [
                    "RevisionRequests"
                ],
                "summary": "Respond to a revision request on behalf of a recipient",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "recipientId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CompleteRevisionRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthenticated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not a recipient",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Already completed",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ]
            }
        }
    },
    "definitions": {
        "UpsertDownwardEvaluationRequest": {
            "type": "object",
            "required": [
                "evaluatorId",
                "employeeId",
                "periodId",
                "wbsItemId",
                "evaluationType"
            ],
            "properties": {
                "evaluatorId": {
                    "type": "string"
                },
                "employeeId": {
                    "type": "string"
                },
                "periodId": {
                    "type": "string"
                },
                "wbsItemId": {
                    "type": "string"
                },
                "evaluationType": {
                    "type": "string",
                    "enum": [
                        "primary",
                        "secondary"
                    ]
                },
                "content": {
                    "type": "string"
                },
                "score": {
                    "type": "number",
                    "minimum": 0,
                    "maximum": 100
                }
            }
        },
        "StepDecisionRequest": {
            "type": "object",
            "required": [
                "status"
            ],
            "properties": {
                "status": {
                    "type": "string",
                    "enum": [
                        "pending",
                        "approved",
                        "revision_requested"
                    ]
                },
                "revisionComment": {
                    "type": "string"
                },
                "evaluatorId": {
                    "type": "string",
                    "description": "Narrows a secondary revision request to one evaluator"
                }
            }
        },
        "RevisionRecipientInput": {
            "type": "object",
            "required": [
                "recipientId",
                "recipientType"
            ],
            "properties": {
                "recipientId": {
                    "type": "string"
                },
                "recipientType": {
                    "type": "string",
                    "enum": [
                        "evaluatee",
                        "primary_evaluator",
                        "secondary_evaluator"
                    ]
                }
            }
        },
        "CreateRevisionRequest": {
            "type": "object",
            "required": [
                "periodId",
                "employeeId",
                "step",
                "comment",
                "recipients"
            ],
            "properties": {
                "periodId": {
                    "type": "string"
                },
                "employeeId": {
                    "type": "string"
                },
                "step": {
                    "type": "string",
                    "enum": [
                        "criteria",
                        "self",
                        "primary",
                        "secondary"
                    ]
                },
                "comment": {
                    "type": "string"
                },
                "recipients": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/RevisionRecipientInput"
                    }
                }
            }
        },
        "CompleteRevisionRequest": {
            "type": "object",
            "required": [
                "responseComment"
            ],
            "properties": {
                "responseComment": {
                    "type": "string"
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                },
                "details": {
                    "type": "object"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Evaluation Progress API",
	Description:      "Step approvals, revision requests and downward evaluation batches for performance evaluation periods.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
