package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/quangND1998/app-p2p/internal/domain/errors"
	"github.com/quangND1998/app-p2p/internal/domain/model"
	"github.com/quangND1998/app-p2p/internal/server/http/dto"
)

const dateLayout = "2006-01-02"

// TransactionHandler serves the recorded transaction history.
type TransactionHandler struct {
	facade TransactionFacade
}

// NewTransactionHandler constructs TransactionHandler.
func NewTransactionHandler(facade TransactionFacade) *TransactionHandler {
	return &TransactionHandler{facade: facade}
}

// ByDate handles GET /api/transactions.
func (h *TransactionHandler) ByDate(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	var recordType model.RecordType
	if raw := c.Query("type"); raw != "" {
		recordType = model.RecordType(raw)
		if recordType != model.RecordTypeBuy && recordType != model.RecordTypeSell {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be buy or sell"})
			return
		}
	}

	records, err := h.facade.TransactionsByDate(c.Request.Context(), date, c.Query("order"), recordType)
	if err != nil {
		if errors.Is(err, domainErrors.ErrCorruptPartition) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction log is corrupt"})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toResponses(records))
}

// ByRange handles GET /api/transactions/range.
func (h *TransactionHandler) ByRange(c *gin.Context) {
	start, err := time.Parse(dateLayout, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse(dateLayout, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end is before start"})
		return
	}

	records, err := h.facade.TransactionsByRange(c.Request.Context(), start, end)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toResponses(records))
}

// Recent handles GET /api/transactions/recent.
func (h *TransactionHandler) Recent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	records, err := h.facade.RecentTransactions(c.Request.Context(), limit)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toResponses(records))
}

// ByOrder handles GET /api/orders/:number.
func (h *TransactionHandler) ByOrder(c *gin.Context) {
	record, err := h.facade.TransactionByOrder(c.Request.Context(), c.Param("number"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.FromRecord(*record))
}

// QRImage handles GET /api/orders/:number/qr.
func (h *TransactionHandler) QRImage(c *gin.Context) {
	record, err := h.facade.TransactionByOrder(c.Request.Context(), c.Param("number"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	if record.QRPath == "" {
		c.Status(http.StatusNotFound)
		return
	}

	c.File(record.QRPath)
}

func toResponses(records []model.TransactionRecord) []dto.TransactionResponse {
	response := make([]dto.TransactionResponse, 0, len(records))
	for _, r := range records {
		response = append(response, dto.FromRecord(r))
	}
	return response
}
