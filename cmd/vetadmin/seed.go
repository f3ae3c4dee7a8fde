package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/swastik-pharma/vetstore/internal/ingest"
	"github.com/swastik-pharma/vetstore/internal/platform/db"
)

// seedReport summarises a seed run.
type seedReport struct {
	Products ingest.UploadSummary
	Orders   int
}

var demoProducts = [][]string{
	{"Item Code", "Product Name", "Brand", "Category", "MRP", "Price", "Stock"},
	{"DRL-ADT-3", "Drools Adult Dog Food 3 kg", "Drools", "Food", "1299", "899", "40"},
	{"DRL-PUP-1", "Drools Puppy Starter 1.2 kg", "Drools", "Food", "520", "468", "6"},
	{"WHK-OCF-1", "Whiskas Ocean Fish 1.2 kg", "Whiskas", "Food", "480", "432", "25"},
	{"HIM-ERA-1", "Himalaya Erina EP Shampoo", "Himalaya", "Grooming", "250", "225", "3"},
	{"VRB-CAL-5", "Virbac Calcium Syrup 5 L", "Virbac", "Supplements", "1650", "1485", "12"},
	{"VNK-POU-1", "Venky's Poultry Multivitamin", "Venky's", "Supplements", "310", "279", "0"},
}

// Bulk upload never writes animal tags, so the demo assigns them afterwards.
var demoAnimals = map[string]string{
	"DRL-ADT-3": "dog",
	"DRL-PUP-1": "dog",
	"WHK-OCF-1": "cat",
	"HIM-ERA-1": "dog",
	"VRB-CAL-5": "large-animals",
	"VNK-POU-1": "poultry",
}

type demoOrder struct {
	number, customer, email, status, payment string
	items                                    []demoItem
}

type demoItem struct {
	itemCode string
	quantity int
}

var demoOrders = []demoOrder{
	{"SP-DEMO-1001", "Asha Patil", "asha@example.com", "pending", "pending",
		[]demoItem{{"DRL-ADT-3", 1}, {"HIM-ERA-1", 2}}},
	{"SP-DEMO-1002", "Ravi Kumar", "ravi@example.com", "shipped", "paid",
		[]demoItem{{"VRB-CAL-5", 1}}},
}

func newSeedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a demo catalog and sample orders",
		Long: `seed upserts a small demo catalog through the bulk upload pipeline and
inserts two sample orders. Running it again updates the products in place and
skips orders that already exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := e.seed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Products: %d created/updated, %d failed, %d brands created\n",
				report.Products.Success, report.Products.Failed, report.Products.CreatedBrands)
			fmt.Fprintf(cmd.OutOrStdout(), "Orders: %d inserted\n", report.Orders)
			return nil
		},
	}
}

func demoCatalogCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(demoProducts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func seedDemo(ctx context.Context, pool *pgxpool.Pool) (seedReport, error) {
	data, err := demoCatalogCSV()
	if err != nil {
		return seedReport{}, err
	}
	svc := ingest.NewService(ingest.NewStore(pool))
	summary, err := svc.Upload(ctx, ingest.Input{Filename: "demo-catalog.csv", Data: data})
	if err != nil {
		return seedReport{}, fmt.Errorf("seed catalog: %w", err)
	}

	inserted := 0
	err = db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		for code, animal := range demoAnimals {
			if _, err := tx.Exec(ctx, `UPDATE products SET animal = $2 WHERE item_code = $1 AND animal IS NULL`,
				code, animal); err != nil {
				return fmt.Errorf("seed animal %s: %w", code, err)
			}
		}
		for _, o := range demoOrders {
			n, err := insertDemoOrder(ctx, tx, o)
			if err != nil {
				return fmt.Errorf("seed order %s: %w", o.number, err)
			}
			inserted += n
		}
		return nil
	})
	if err != nil {
		return seedReport{}, err
	}
	return seedReport{Products: summary, Orders: inserted}, nil
}

// insertDemoOrder prices items from the current catalog and returns 0 when
// the order number already exists.
func insertDemoOrder(ctx context.Context, tx pgx.Tx, o demoOrder) (int, error) {
	var orderID int64
	err := tx.QueryRow(ctx, `INSERT INTO orders (order_number, customer_name, customer_email, status, payment_status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (order_number) DO NOTHING
		RETURNING id`, o.number, o.customer, o.email, o.status, o.payment).Scan(&orderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	batch := &pgx.Batch{}
	for _, it := range o.items {
		batch.Queue(`INSERT INTO order_items (order_id, product_id, product_name, quantity, price, subtotal)
			SELECT $1, p.id, p.name, $3, p.price, p.price * $3 FROM products p WHERE p.item_code = $2`,
			orderID, it.itemCode, it.quantity)
	}
	batch.Queue(`UPDATE orders SET total_amount = COALESCE((SELECT SUM(subtotal) FROM order_items WHERE order_id = $1), 0)
		WHERE id = $1`, orderID)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, err
	}
	return 1, nil
}
