package app

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/pkg/errors"

	"gitlab.com/silenteer-oss/eatery"
	"gitlab.com/silenteer-oss/eatery/api"
	"gitlab.com/silenteer-oss/eatery/restaurant"
)

// notExistMessage is what editrestaurant reports for an unknown id.
const notExistMessage = "Restaurant doesn't exist"

// GraphQL serves the restaurant schema over the json router.
type GraphQL struct {
	schema graphql.Schema
}

func NewGraphQL(directory *restaurant.Directory) (*GraphQL, error) {
	schema, err := newSchema(directory)
	if err != nil {
		return nil, errors.WithMessage(err, "GraphQL schema error")
	}
	return &GraphQL{schema: schema}, nil
}

// Execute runs the query posted in the body.
func (g *GraphQL) Execute(ctx *eatery.Context, request *api.GraphQLRequest) (*graphql.Result, error) {
	return g.do(ctx, request)
}

// Query runs the query given as url parameters. Mutations are refused,
// they need a POST.
func (g *GraphQL) Query(ctx *eatery.Context) (*graphql.Result, error) {
	params := ctx.QueryParams()
	request := &api.GraphQLRequest{
		Query:         first(params["query"]),
		OperationName: first(params["operationName"]),
	}
	if operationType(request.Query, request.OperationName) == ast.OperationTypeMutation {
		return nil, eatery.NewHttpError(http.StatusMethodNotAllowed,
			errors.New("Can only perform a mutation operation from a POST request."))
	}
	return g.do(ctx, request)
}

// operationType is the type of the operation a request selects, empty when
// the query does not parse or names no such operation.
func operationType(query, operationName string) string {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return ""
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName == "" || (op.Name != nil && op.Name.Value == operationName) {
			return op.Operation
		}
	}
	return ""
}

func (g *GraphQL) do(ctx *eatery.Context, request *api.GraphQLRequest) (*graphql.Result, error) {
	if request.Query == "" {
		return nil, eatery.NewBadRequestError(errors.New("Must provide query string."))
	}
	return graphql.Do(graphql.Params{
		Schema:         g.schema,
		RequestString:  request.Query,
		VariableValues: request.Variables,
		OperationName:  request.OperationName,
		Context:        ctx,
	}), nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func newSchema(directory *restaurant.Directory) (graphql.Schema, error) {
	dishType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Dish",
		Fields: graphql.Fields{
			"name": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(restaurant.Dish).Name, nil
				},
			},
			"price": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(restaurant.Dish).Price, nil
				},
			},
		},
	})

	restaurantType := graphql.NewObject(graphql.ObjectConfig{
		Name: "restaurant",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(restaurant.Restaurant).ID, nil
				},
			},
			"name": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(restaurant.Restaurant).Name, nil
				},
			},
			"description": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(restaurant.Restaurant).Description, nil
				},
			},
			"dishes": &graphql.Field{
				Type: graphql.NewList(dishType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(restaurant.Restaurant).Dishes, nil
				},
			},
		},
	})

	deleteResponseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DeleteResponse",
		Fields: graphql.Fields{
			"ok": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(api.DeleteResponse).Ok, nil
				},
			},
		},
	})

	restaurantInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "restaurantInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"restaurant": &graphql.Field{
				Type: restaurantType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, ok := p.Args["id"].(int)
					if !ok {
						return nil, nil
					}
					found, ok := directory.GetByID(id)
					if !ok {
						return nil, nil
					}
					return found, nil
				},
			},
			"restaurants": &graphql.Field{
				Type: graphql.NewList(restaurantType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return directory.GetAll(), nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"setrestaurant": &graphql.Field{
				Type: restaurantType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: restaurantInput},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					input, _ := p.Args["input"].(map[string]interface{})
					name, _ := input["name"].(string)
					description, _ := input["description"].(string)
					return directory.Create(name, description), nil
				},
			},
			"deleterestaurant": &graphql.Field{
				Type: deleteResponseType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					return api.DeleteResponse{Ok: directory.Delete(id)}, nil
				},
			},
			"editrestaurant": &graphql.Field{
				Type: restaurantType,
				Args: graphql.FieldConfigArgument{
					"id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"name":        &graphql.ArgumentConfig{Type: graphql.String},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					var changes restaurant.Changes
					if name, ok := p.Args["name"].(string); ok {
						changes.Name = &name
					}
					if description, ok := p.Args["description"].(string); ok {
						changes.Description = &description
					}

					updated, err := directory.Update(id, changes)
					if errors.Is(err, restaurant.ErrNotFound) {
						return nil, errors.New(notExistMessage)
					}
					if err != nil {
						return nil, err
					}
					return updated, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
