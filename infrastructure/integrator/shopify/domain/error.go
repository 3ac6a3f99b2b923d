package shopifydomain

// GraphQLError representa um item do array errors da resposta GraphQL
type GraphQLError struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// IsThrottled verifica se o erro é de limite de custo da API
func (e GraphQLError) IsThrottled() bool {
	code, _ := e.Extensions["code"].(string)
	return code == "THROTTLED"
}
