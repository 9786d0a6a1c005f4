package market

import "net/http"

// Endpoint is one REST operation of the market API, relative to the base URL.
type Endpoint struct {
	Name   string
	Method string
	Path   string
}

var (
	EndpointGetProducts   = Endpoint{Name: "getProducts", Method: http.MethodGet, Path: "products"}
	EndpointGetProduct    = Endpoint{Name: "getProduct", Method: http.MethodGet, Path: "products/{id}"}
	EndpointCreateProduct = Endpoint{Name: "createProduct", Method: http.MethodPost, Path: "products"}
	EndpointUpdateProduct = Endpoint{Name: "updateProduct", Method: http.MethodPut, Path: "products"}
	EndpointDeleteProduct = Endpoint{Name: "deleteProduct", Method: http.MethodDelete, Path: "products/{id}"}
	EndpointGetCategory   = Endpoint{Name: "getCategory", Method: http.MethodGet, Path: "categories/{id}"}
)

// Endpoints lists every operation the client knows about.
func Endpoints() []Endpoint {
	return []Endpoint{
		EndpointGetProducts,
		EndpointGetProduct,
		EndpointCreateProduct,
		EndpointUpdateProduct,
		EndpointDeleteProduct,
		EndpointGetCategory,
	}
}

// ReadOnly reports whether the endpoint leaves server state untouched.
func (e Endpoint) ReadOnly() bool {
	return e.Method == http.MethodGet || e.Method == http.MethodHead
}
