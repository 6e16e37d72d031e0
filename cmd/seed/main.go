package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"bank-reconciliation-backend/internal/config"
	"bank-reconciliation-backend/internal/models"
	"bank-reconciliation-backend/internal/repository"
)

var (
	customerID  string
	pairs       int
	bulkGroups  int
	splitGroups int
	noise       int
)

func main() {
	root := &cobra.Command{
		Use:   "seed",
		Short: "Populate the reconciliation database with sample invoices and payments",
		RunE:  runSeed,
	}
	root.Flags().StringVar(&customerID, "customer", "CUST-001", "customer id to seed data for")
	root.Flags().IntVar(&pairs, "pairs", 20, "exact 1:1 invoice/payment pairs")
	root.Flags().IntVar(&bulkGroups, "bulk", 5, "bulk N:1 groups (two invoices per payment)")
	root.Flags().IntVar(&splitGroups, "split", 5, "split 1:N groups (two payments per invoice)")
	root.Flags().IntVar(&noise, "noise", 10, "unmatched items with account-number remittances")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	db := config.InitDB()
	db.AutoMigrate(
		&models.InvoiceRow{},
		&models.PaymentRow{},
		&models.ReconciliationMatch{},
		&models.ReconciliationException{},
		&models.AuditTrail{},
	)
	store := repository.NewStore(db)

	now := time.Now()
	seq := 0
	nextID := func(prefix string) string {
		seq++
		return fmt.Sprintf("%s-%04d", prefix, seq)
	}

	// Exact 1:1 pairs: payment remittance cites the invoice id.
	for i := 0; i < pairs; i++ {
		amount := 100.0 + float64(i)*37.5
		invID := nextID("INV")
		mustInvoice(store, models.Invoice{
			InvoiceID: invID, Amount: amount, Currency: "USD",
			VendorName:  fmt.Sprintf("Vendor %d", i+1),
			PONumber:    nextID("PO"),
			InvoiceDate: now.AddDate(0, 0, -i%20),
		})
		mustPayment(store, models.Payment{
			PaymentID: nextID("PAY"), Amount: amount, Currency: "USD",
			SenderName:    fmt.Sprintf("Vendor %d", i+1),
			RemittanceRaw: fmt.Sprintf("Full payment for %s", invID),
			PaymentDate:   now.AddDate(0, 0, -i%10),
		})
	}

	// Bulk N:1: one payment settles two invoices.
	for i := 0; i < bulkGroups; i++ {
		a := 400.0 + float64(i)*10
		b := 600.0 + float64(i)*10
		invA := nextID("INV")
		invB := nextID("INV")
		mustInvoice(store, models.Invoice{
			InvoiceID: invA, Amount: a, Currency: "USD",
			VendorName: "Bulk Vendor", InvoiceDate: now.AddDate(0, 0, -5),
		})
		mustInvoice(store, models.Invoice{
			InvoiceID: invB, Amount: b, Currency: "USD",
			VendorName: "Bulk Vendor", InvoiceDate: now.AddDate(0, 0, -5),
		})
		mustPayment(store, models.Payment{
			PaymentID: nextID("PAY"), Amount: a + b, Currency: "USD",
			SenderName:    "Bulk Vendor",
			RemittanceRaw: fmt.Sprintf("Settling %s and %s", invA, invB),
			PaymentDate:   now,
		})
	}

	// Split 1:N: two payments settle one invoice.
	for i := 0; i < splitGroups; i++ {
		total := 900.0 + float64(i)*25
		invID := nextID("INV")
		mustInvoice(store, models.Invoice{
			InvoiceID: invID, Amount: total, Currency: "USD",
			VendorName: "Split Vendor", InvoiceDate: now.AddDate(0, 0, -12),
		})
		mustPayment(store, models.Payment{
			PaymentID: nextID("PAY"), Amount: total / 3, Currency: "USD",
			SenderName:    "Split Vendor",
			RemittanceRaw: fmt.Sprintf("Installment 1 of %s", invID),
			PaymentDate:   now.AddDate(0, 0, -2),
		})
		mustPayment(store, models.Payment{
			PaymentID: nextID("PAY"), Amount: total * 2 / 3, Currency: "USD",
			SenderName:    "Split Vendor",
			RemittanceRaw: fmt.Sprintf("Installment 2 of %s", invID),
			PaymentDate:   now.AddDate(0, 0, -1),
		})
	}

	// Noise: aged unmatched invoices and payments whose remittances
	// carry account-number-like digit runs for the compliance filter.
	for i := 0; i < noise; i++ {
		mustInvoice(store, models.Invoice{
			InvoiceID: nextID("INV"), Amount: 55.5 + float64(i), Currency: "USD",
			VendorName: "Stale Vendor", InvoiceDate: now.AddDate(0, 0, -35-i),
		})
		mustPayment(store, models.Payment{
			PaymentID: nextID("PAY"), Amount: 77.7 + float64(i), Currency: "USD",
			SenderName:    "Unknown Sender",
			RemittanceRaw: fmt.Sprintf("Wire from acct 9983%06d11 no reference", i),
			PaymentDate:   now,
		})
	}

	log.Printf("seeded customer %s: %d pairs, %d bulk, %d split, %d noise",
		customerID, pairs, bulkGroups, splitGroups, noise)
	return nil
}

func mustInvoice(store *repository.Store, inv models.Invoice) {
	if _, err := store.Invoices().Create(customerID, inv); err != nil {
		log.Fatal("seed invoice: ", err)
	}
}

func mustPayment(store *repository.Store, pay models.Payment) {
	if _, err := store.Payments().Create(customerID, pay); err != nil {
		log.Fatal("seed payment: ", err)
	}
}
