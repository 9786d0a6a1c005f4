package market

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/samvad-hq/market-contract-tests/internal/domain"
	"github.com/samvad-hq/market-contract-tests/pkg/httpclient"
)

func newTestClient(t *testing.T) (*fakeMarket, *Client) {
	t.Helper()
	fake, srv := newFakeMarket(t)
	client, err := NewClient(Options{BaseURL: srv.URL + "/market/api/v1/"}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return fake, client
}

func TestProductLifecycle(t *testing.T) {
	fake, client := newTestClient(t)
	ctx := context.Background()
	products := client.Products()

	created, err := products.CreateProduct(ctx, domain.NewProduct("Borscht", 150, "Food"))
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if created.Code() != http.StatusCreated || created.Body() == nil {
		t.Fatalf("unexpected create response %d", created.Code())
	}
	id, ok := created.Body().IDValue()
	if !ok {
		t.Fatalf("server did not assign an id")
	}

	got, err := products.GetProduct(ctx, id)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got.Body().GetTitle() != "Borscht" || got.Body().GetPrice() != 150 || got.Body().GetCategoryTitle() != "Food" {
		t.Fatalf("unexpected product %v", *got.Body())
	}
	if got.ErrorBody() != nil {
		t.Fatalf("successful response must not carry an error body")
	}

	list, err := products.GetProducts(ctx)
	if err != nil {
		t.Fatalf("GetProducts: %v", err)
	}
	if len(*list.Body()) != 1 {
		t.Fatalf("expected 1 product, got %d", len(*list.Body()))
	}

	updated, err := products.UpdateProduct(ctx, created.Body().WithTitle("Shchi").WithPrice(99))
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if uid, _ := updated.Body().IDValue(); uid != id || updated.Body().GetTitle() != "Shchi" {
		t.Fatalf("unexpected update %v", *updated.Body())
	}

	deleted, err := products.DeleteProduct(ctx, id)
	if err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if !deleted.IsSuccessful() || deleted.ErrorBody() != nil {
		t.Fatalf("unexpected delete response %d %s", deleted.Code(), deleted.ErrorBody())
	}
	if fake.has(id) {
		t.Fatalf("product %d still on server", id)
	}
}

func TestGetMissingProductDecodesErrorMessage(t *testing.T) {
	_, client := newTestClient(t)

	resp, err := client.Products().GetProduct(context.Background(), -1)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if resp.Code() != http.StatusNotFound || resp.Body() != nil {
		t.Fatalf("expected 404 without body, got %d", resp.Code())
	}
	msg := DecodeError(resp)
	if msg == nil || msg.Message != "Unable to find product with id: -1" || msg.Status != 404 {
		t.Fatalf("unexpected error message %#v", msg)
	}
}

func TestUpdateMissingProductIsBadRequest(t *testing.T) {
	_, client := newTestClient(t)

	resp, err := client.Products().UpdateProduct(context.Background(), domain.NewProduct("x", 1, "Food").WithID(-1))
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if resp.Code() != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code())
	}
	if msg := DecodeError(resp); msg == nil || msg.Message != "Product with id: -1 doesn't exist" {
		t.Fatalf("unexpected error message %#v", msg)
	}
}

func TestDeleteMissingProductIsServerError(t *testing.T) {
	_, client := newTestClient(t)

	resp, err := client.Products().DeleteProduct(context.Background(), -1)
	if err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if resp.Code() != http.StatusInternalServerError || resp.ErrorBody() == nil {
		t.Fatalf("expected 500 with error body, got %d", resp.Code())
	}
}

func TestCreateEmptyProductIsServerError(t *testing.T) {
	fake, client := newTestClient(t)

	resp, err := client.Products().CreateProduct(context.Background(), domain.Product{})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if resp.Code() != http.StatusInternalServerError || resp.Body() != nil {
		t.Fatalf("expected 500 without body, got %d", resp.Code())
	}
	if got := fake.posted(); got != `{"id":null,"title":null,"price":null,"categoryTitle":null}` {
		t.Fatalf("unexpected request body %s", got)
	}
	if fake.count() != 0 {
		t.Fatalf("rejected product must not be stored")
	}
}

func TestCreateLongTitleIsServerError(t *testing.T) {
	fake, client := newTestClient(t)

	title := strings.Repeat("a", 5000)
	resp, err := client.Products().CreateProduct(context.Background(), domain.Product{}.WithTitle(title))
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if resp.Code() != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code())
	}
	if !strings.Contains(fake.posted(), `"price":null,"categoryTitle":null`) {
		t.Fatalf("expected null price and category, got %.80s", fake.posted())
	}
}

func TestGetCategory(t *testing.T) {
	fake, client := newTestClient(t)

	resp, err := client.Categories().GetCategory(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetCategory: %v", err)
	}
	if resp.Body().ID != 1 || resp.Body().Title != "Food" {
		t.Fatalf("unexpected category %#v", resp.Body())
	}
	if last := fake.requests[len(fake.requests)-1]; last != "GET /categories/1" {
		t.Fatalf("unexpected request %q", last)
	}
}

type stubResponse struct {
	code int
	body []byte
}

func (s stubResponse) Body() []byte    { return s.body }
func (s stubResponse) StatusCode() int { return s.code }
func (s stubResponse) Status() string  { return http.StatusText(s.code) }
func (s stubResponse) IsSuccess() bool { return s.code >= 200 && s.code < 300 }

type stubHTTPClient struct {
	resp httpclient.Response
	err  error
	last httpclient.Request
}

func (s *stubHTTPClient) Do(_ context.Context, req httpclient.Request) (httpclient.Response, error) {
	s.last = req
	return s.resp, s.err
}

func TestServicesBuildRequestsFromEndpointTable(t *testing.T) {
	stub := &stubHTTPClient{resp: stubResponse{code: 200}}
	client := NewClientWithHTTP(stub, nil)

	if _, err := client.Products().DeleteProduct(context.Background(), 17); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if stub.last.Method != http.MethodDelete || stub.last.Path != "products/{id}" || stub.last.PathParams["id"] != "17" {
		t.Fatalf("unexpected request %#v", stub.last)
	}

	p := domain.NewProduct("t", 1, "Food")
	if _, err := client.Products().UpdateProduct(context.Background(), p); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if stub.last.Method != http.MethodPut || stub.last.Body != p {
		t.Fatalf("unexpected request %#v", stub.last)
	}
}

func TestTransportErrorIsReturned(t *testing.T) {
	client := NewClientWithHTTP(&stubHTTPClient{err: errors.New("connection refused")}, nil)
	if _, err := client.Products().GetProducts(context.Background()); err == nil {
		t.Fatalf("expected transport error")
	}
}

func TestMalformedSuccessBodyIsAnError(t *testing.T) {
	client := NewClientWithHTTP(&stubHTTPClient{resp: stubResponse{code: 200, body: []byte("<html>")}}, nil)
	resp, err := client.Products().GetProduct(context.Background(), 1)
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if resp == nil || resp.Code() != 200 {
		t.Fatalf("expected response to be returned alongside the error")
	}
}

func TestDecodeError(t *testing.T) {
	cases := []struct {
		name string
		resp stubResponse
		want *domain.ErrorMessage
	}{
		{name: "success", resp: stubResponse{code: 200, body: []byte(`{"status":200,"message":"ok"}`)}},
		{name: "no body", resp: stubResponse{code: 500}},
		{name: "malformed", resp: stubResponse{code: 500, body: []byte("oops")}},
		{
			name: "decoded",
			resp: stubResponse{code: 404, body: []byte(`{"status":404,"message":"gone","timestamp":"2024-01-01"}`)},
			want: &domain.ErrorMessage{Status: 404, Message: "gone", Timestamp: "2024-01-01"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			typed, err := decodeResponse[domain.Product](tc.resp)
			if err != nil && typed == nil {
				t.Fatalf("decodeResponse: %v", err)
			}
			got := DecodeError(typed)
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("expected nil, got %#v", got)
			case tc.want != nil && (got == nil || *got != *tc.want):
				t.Fatalf("got %#v want %#v", got, tc.want)
			}
		})
	}
}

func TestEndpointsReadOnly(t *testing.T) {
	readOnly := 0
	for _, ep := range Endpoints() {
		if ep.ReadOnly() {
			readOnly++
		}
	}
	if readOnly != 3 {
		t.Fatalf("expected 3 read-only endpoints, got %d", readOnly)
	}
}
