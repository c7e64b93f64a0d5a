package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	types "github.com/cardnexus/cardnexus-backend/internal/domain/cards"
	apperrors "github.com/cardnexus/cardnexus-backend/internal/pkg/errors"
)

type fakeCardService struct {
	listReq  *types.CardListRequest
	listResp *types.CardListResponse
	listErr  error

	scanImage []byte
	scanName  string
	scanResp  *types.ScanResponse
	scanErr   error
}

func (f *fakeCardService) CardList(ctx context.Context, req types.CardListRequest) (*types.CardListResponse, error) {
	f.listReq = &req
	return f.listResp, f.listErr
}

func (f *fakeCardService) CardScan(ctx context.Context, image []byte, filename string) (*types.ScanResponse, error) {
	f.scanImage = image
	f.scanName = filename
	return f.scanResp, f.scanErr
}

func testRouter(svc *fakeCardService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCardHandler(svc)
	r.GET("/api/cards", h.ListCards)
	r.POST("/api/cards/scan", h.ScanCard)
	return r
}

func multipartBody(tb testing.TB, field, filename string, content []byte) (*bytes.Buffer, string) {
	tb.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(tb, err)
	_, err = part.Write(content)
	require.NoError(tb, err)
	require.NoError(tb, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestListCardsBindsQuery(t *testing.T) {
	svc := &fakeCardService{listResp: &types.CardListResponse{
		Items:      []types.CardView{},
		Pagination: types.Pagination{Page: 2, ItemsPerPage: 5},
	}}
	r := testRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/cards?page=2&itemsPerPage=5&type=lorcana&query=mouse&attrInkCost=2&attrInkCost=3", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.listReq)
	require.Equal(t, 2, svc.listReq.Page)
	require.Equal(t, 5, svc.listReq.ItemsPerPage)
	require.Equal(t, types.CardTypeLorcana, svc.listReq.Type)
	require.Equal(t, "mouse", svc.listReq.Query)
	require.Equal(t, []int{2, 3}, svc.listReq.AttrInkCost)
}

func TestListCardsInvalidFilters(t *testing.T) {
	svc := &fakeCardService{listErr: fmt.Errorf("%w: unknown rarity", apperrors.ErrInvalidArgument)}
	r := testRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cards?attrRarity=Shiny", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "invalid_request", envelope.Error.Code)
}

func TestScanCard(t *testing.T) {
	svc := &fakeCardService{scanResp: &types.ScanResponse{
		Items: []types.ScanMatch{{CardID: "lor-1", Name: "Mickey Mouse"}},
	}}
	r := testRouter(svc)

	body, contentType := multipartBody(t, "file", "card.jpg", []byte("image-bytes"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cards/scan", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []byte("image-bytes"), svc.scanImage)
	require.Equal(t, "card.jpg", svc.scanName)

	var resp types.ScanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	require.Equal(t, "lor-1", resp.Items[0].CardID)
}

func TestScanCardMissingFile(t *testing.T) {
	r := testRouter(&fakeCardService{})

	body, contentType := multipartBody(t, "not-file", "card.jpg", []byte("image-bytes"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cards/scan", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScanCardTooLarge(t *testing.T) {
	svc := &fakeCardService{}
	r := testRouter(svc)

	body, contentType := multipartBody(t, "file", "card.jpg", make([]byte, maxScanUpload+1))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cards/scan", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	require.Nil(t, svc.scanImage, "oversized upload must not reach the service")
}

func TestScanCardUpstreamFailure(t *testing.T) {
	svc := &fakeCardService{scanErr: fmt.Errorf("scan API error (500)")}
	r := testRouter(svc)

	body, contentType := multipartBody(t, "file", "card.jpg", []byte("image-bytes"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cards/scan", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)
}
