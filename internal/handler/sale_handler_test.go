package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"colmado/internal/domain"
	"colmado/internal/handler"
	"colmado/internal/middleware"
	"colmado/internal/service"
	"colmado/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setAuthContext(c *gin.Context, userID uuid.UUID, role string) {
	c.Set(middleware.ContextKeyUserID, userID)
	c.Set(middleware.ContextKeyRole, role)
}

func newSaleHandler() (*handler.SaleHandler, *mocks.MockSaleService) {
	mockSvc := new(mocks.MockSaleService)
	h := handler.NewSaleHandler(mockSvc)
	return h, mockSvc
}

func TestSaleHandler_Record_Success(t *testing.T) {
	h, mockSvc := newSaleHandler()
	userID := uuid.New()

	sale := &domain.Sale{ID: uuid.New(), SaleNumber: 42}
	mockSvc.On("RecordSale", mock.Anything, mock.MatchedBy(func(in *service.RecordSaleInput) bool {
		return in.CreatedBy == userID && len(in.Items) == 1
	})).Return(&service.RecordSaleResult{Sale: sale}, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"payment_method": "cash",
		"items": []map[string]interface{}{
			{"product_id": uuid.New(), "quantity": 2, "unit_price": "89.00"},
		},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuthContext(c, userID, "cashier")

	h.Record(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	mockSvc.AssertExpectations(t)
}

func TestSaleHandler_Record_MissingAuthContext(t *testing.T) {
	h, mockSvc := newSaleHandler()

	body, _ := json.Marshal(map[string]interface{}{"items": []interface{}{}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Record(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockSvc.AssertNotCalled(t, "RecordSale")
}

func TestSaleHandler_Record_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"insufficient stock", domain.ErrInsufficientStock, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"no active sequence", domain.ErrNoActiveSequence, http.StatusUnprocessableEntity, "NO_ACTIVE_SEQUENCE"},
		{"sequence exhausted", domain.ErrSequenceExhausted, http.StatusUnprocessableEntity, "SEQUENCE_EXHAUSTED"},
		{"taxpayer required", domain.ErrTaxpayerRequired, http.StatusUnprocessableEntity, "TAXPAYER_REQUIRED"},
		{"transient conflict", domain.ErrTransientConflict, http.StatusConflict, "TRANSIENT_CONFLICT"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, mockSvc := newSaleHandler()
			mockSvc.On("RecordSale", mock.Anything, mock.Anything).Return(nil, tc.err)

			body, _ := json.Marshal(map[string]interface{}{
				"payment_method": "cash",
				"items": []map[string]interface{}{
					{"product_id": uuid.New(), "quantity": 1, "unit_price": "10.00"},
				},
			})

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewReader(body))
			c.Request.Header.Set("Content-Type", "application/json")
			setAuthContext(c, uuid.New(), "cashier")

			h.Record(c)

			assert.Equal(t, tc.status, w.Code)

			var resp handler.APIResponse
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

func TestSaleHandler_GetByID_InvalidUUID(t *testing.T) {
	h, _ := newSaleHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/sales/not-a-uuid", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
