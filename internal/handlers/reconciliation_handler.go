package handler

import (
	"encoding/csv"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bank-reconciliation-backend/internal/models"
	"bank-reconciliation-backend/internal/repository"
	service "bank-reconciliation-backend/internal/services/reconciliation"
)

type ReconciliationHandler struct {
	service *service.Service
	store   *repository.Store
}

func NewReconciliationHandler(s *service.Service, store *repository.Store) *ReconciliationHandler {
	return &ReconciliationHandler{service: s, store: store}
}

// Reconcile runs the full pipeline for one customer and returns the
// finished session with summary counts.
func (h *ReconciliationHandler) Reconcile(c *gin.Context) {
	var payload struct {
		CustomerID string `json:"customer_id"`
		TenantName string `json:"tenant_name"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	sess, err := h.service.Reconcile(c.Request.Context(), payload.CustomerID, payload.TenantName)
	if err != nil {
		if errors.Is(err, service.ErrMissingCustomer) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	proposed := 0
	for _, m := range sess.Matches {
		if m.Status == models.StatusProposed {
			proposed++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"session": sess,
		"summary": gin.H{
			"matches":    len(sess.Matches),
			"exceptions": len(sess.Exceptions),
			"proposed":   proposed,
		},
	})
}

// ManualMatch records an operator override outside the pipeline.
func (h *ReconciliationHandler) ManualMatch(c *gin.Context) {
	var payload struct {
		InvoiceID  string `json:"invoice_id"`
		PaymentID  string `json:"payment_id"`
		CustomerID string `json:"customer_id"`
		Operator   string `json:"operator"`
		Reason     string `json:"reason"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	match, err := h.service.ManualOverride(c.Request.Context(),
		payload.InvoiceID, payload.PaymentID, payload.CustomerID, payload.Operator, payload.Reason)
	if err != nil {
		if errors.Is(err, service.ErrMissingCustomer) || errors.Is(err, service.ErrInvalidOverride) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "manual match persisted",
		"match":   match,
	})
}

// UploadInvoices ingests a tenant-scoped invoice CSV:
// invoice_id,amount,currency,vendor_name,po_number,invoice_date
func (h *ReconciliationHandler) UploadInvoices(c *gin.Context) {
	customerID := c.Query("customer_id")
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_id required"})
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()
	log.Println("received invoice file:", header.Filename, "size:", header.Size)

	inserted := h.ingestCSV(file, 6, func(record []string) bool {
		amount, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil || amount < 0 {
			return false
		}
		invoiceDate, err := parseDate(record[5])
		if err != nil {
			return false
		}
		_, err = h.store.Invoices().Create(customerID, models.Invoice{
			InvoiceID:   strings.TrimSpace(record[0]),
			Amount:      amount,
			Currency:    strings.TrimSpace(record[2]),
			VendorName:  strings.TrimSpace(record[3]),
			PONumber:    strings.TrimSpace(record[4]),
			InvoiceDate: invoiceDate,
		})
		return err == nil
	})

	c.JSON(http.StatusOK, gin.H{"file": header.Filename, "invoicesAdded": inserted})
}

// UploadPayments ingests a tenant-scoped payment CSV:
// payment_id,amount,currency,sender_name,trace_id,remittance,payment_date
func (h *ReconciliationHandler) UploadPayments(c *gin.Context) {
	customerID := c.Query("customer_id")
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_id required"})
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()
	log.Println("received payment file:", header.Filename, "size:", header.Size)

	inserted := h.ingestCSV(file, 7, func(record []string) bool {
		amount, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil || amount < 0 {
			return false
		}
		paymentDate, err := parseDate(record[6])
		if err != nil {
			return false
		}
		_, err = h.store.Payments().Create(customerID, models.Payment{
			PaymentID:     strings.TrimSpace(record[0]),
			Amount:        amount,
			Currency:      strings.TrimSpace(record[2]),
			SenderName:    strings.TrimSpace(record[3]),
			TraceID:       strings.TrimSpace(record[4]),
			RemittanceRaw: record[5],
			PaymentDate:   paymentDate,
		})
		return err == nil
	})

	c.JSON(http.StatusOK, gin.H{"file": header.Filename, "paymentsAdded": inserted})
}

// ingestCSV reads rows after the header, skipping malformed ones with
// a logged reason.
func (h *ReconciliationHandler) ingestCSV(r io.Reader, minFields int, insert func(record []string) bool) int {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Println("cannot read CSV header:", err)
		return 0
	}

	inserted := 0
	rowNum := 1
	for {
		record, err := reader.Read()
		rowNum++
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("skipping row %d: %v", rowNum, err)
			continue
		}
		if len(record) < minFields {
			log.Printf("skipping row %d: insufficient columns", rowNum)
			continue
		}
		if !insert(record) {
			log.Printf("skipping row %d: invalid values", rowNum)
			continue
		}
		inserted++
	}
	return inserted
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		d, err = time.Parse("02-01-2006", s)
	}
	return d, err
}

// Health is the liveness probe.
func (h *ReconciliationHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
