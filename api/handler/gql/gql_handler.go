package gql

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/mikann/photo-gallery/api/common"
)

// Handler executes GraphQL requests against a prebuilt schema.
type Handler struct {
	schema graphql.Schema
}

func NewHandler(schema graphql.Schema) *Handler {
	return &Handler{schema: schema}
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handle serves one GraphQL request. POST carries a JSON body, GET carries
// the query string.
func (h *Handler) Handle(c *gin.Context) {
	var req graphqlRequest

	if c.Request.Method == http.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if vars := c.Query("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				common.RespondError(c, http.StatusBadRequest, "Invalid variables parameter")
				return
			}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.Query == "" {
		common.RespondError(c, http.StatusBadRequest, "Query is required")
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        c.Request.Context(),
	})
	c.JSON(http.StatusOK, result)
}
