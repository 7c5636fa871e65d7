// Package ident allocates the human-readable sequential codes used for
// products (P001, P002, ...) and invoices (INV-1000, INV-1001, ...).
package ident

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const (
	productPrefix      = "P"
	invoicePrefix      = "INV-"
	firstInvoiceNumber = 1000
)

// NextProductCode derives the successor of the given product code. An empty or
// unparseable last code restarts the sequence at P001.
func NextProductCode(last string) string {
	next := 1
	if n, err := strconv.Atoi(strings.TrimPrefix(last, productPrefix)); err == nil {
		next = n + 1
	}
	return fmt.Sprintf("%s%03d", productPrefix, next)
}

// NextInvoiceCode derives the successor of the given invoice code. An empty or
// unparseable last code restarts the sequence at INV-1000.
func NextInvoiceCode(last string) string {
	next := firstInvoiceNumber
	if n, err := strconv.Atoi(strings.TrimPrefix(last, invoicePrefix)); err == nil {
		next = n + 1
	}
	return fmt.Sprintf("%s%d", invoicePrefix, next)
}

// Store provides the current maximum codes the allocator increments from.
type Store interface {
	MaxProductCode(ctx context.Context) (string, error)
	LastInvoiceCode(ctx context.Context) (string, error)
}

// Allocator produces sequential codes from the live store maximum. Codes are
// unique and strictly increasing only under serialized access; a concurrent
// allocation race surfaces as a duplicate-key failure on insert, which callers
// resolve by re-allocating once.
type Allocator struct {
	store Store
}

// NewAllocator wires an allocator over the given store.
func NewAllocator(store Store) *Allocator {
	return &Allocator{store: store}
}

// ProductCode allocates the next product code.
func (a *Allocator) ProductCode(ctx context.Context) (string, error) {
	last, err := a.store.MaxProductCode(ctx)
	if err != nil {
		return "", fmt.Errorf("allocate product code: %w", err)
	}
	return NextProductCode(last), nil
}

// ProductCodes allocates count consecutive product codes for bulk imports.
func (a *Allocator) ProductCodes(ctx context.Context, count int) ([]string, error) {
	last, err := a.store.MaxProductCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate product codes: %w", err)
	}

	codes := make([]string, 0, count)
	for i := 0; i < count; i++ {
		last = NextProductCode(last)
		codes = append(codes, last)
	}
	return codes, nil
}

// InvoiceCode allocates the next invoice code.
func (a *Allocator) InvoiceCode(ctx context.Context) (string, error) {
	last, err := a.store.LastInvoiceCode(ctx)
	if err != nil {
		return "", fmt.Errorf("allocate invoice code: %w", err)
	}
	return NextInvoiceCode(last), nil
}
