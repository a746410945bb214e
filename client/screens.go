package client

import (
	"fmt"
	"sort"
	"time"
)

// Poll cadence is a fixed contract with the backend, not adaptive.
const (
	StaffPollInterval    = 3 * time.Second
	CustomerPollInterval = 10 * time.Second
)

// Placeholder texts shown instead of an empty bucket.
const (
	PlaceholderKitchen = "No items are cooking right now."
	PlaceholderCooking = "No orders are cooking right now."
	PlaceholderReady   = "No orders are waiting to be served."
	PlaceholderServed  = "No tables are waiting for checkout."
	PlaceholderCalls   = "No calls right now."
	PlaceholderTables  = "No tables are waiting for checkout."
	PlaceholderPaid    = "No settled orders today."
)

// Snapshot is what a screen renders on each successful tick. IDs feed the
// diff so only changed identities cause churn in the view.
type Snapshot interface {
	IDs() IDSet
}

/*
========================================
 KITCHEN
========================================
*/

// KitchenCard is one cooking item on the kitchen display.
type KitchenCard struct {
	ItemID   uint
	OrderID  uint
	TableID  uint
	ItemName string
	Quantity int
}

type KitchenSnapshot struct {
	Cards []KitchenCard
}

// BuildKitchenSnapshot keeps only cooking items, ordered by item ID so the
// oldest dishes sit first.
func BuildKitchenSnapshot(orders []Order) KitchenSnapshot {
	var snap KitchenSnapshot
	for _, order := range orders {
		for _, item := range order.Items {
			if item.Status != StatusCooking {
				continue
			}
			snap.Cards = append(snap.Cards, KitchenCard{
				ItemID:   item.ID,
				OrderID:  order.ID,
				TableID:  order.TableID,
				ItemName: item.ItemName,
				Quantity: item.Quantity,
			})
		}
	}
	sort.Slice(snap.Cards, func(i, j int) bool {
		return snap.Cards[i].ItemID < snap.Cards[j].ItemID
	})
	return snap
}

func (s KitchenSnapshot) IDs() IDSet {
	set := make(IDSet, len(s.Cards))
	for _, card := range s.Cards {
		set[fmt.Sprintf("item/%d", card.ItemID)] = struct{}{}
	}
	return set
}

/*
========================================
 HALL
========================================
*/

// HallGroup is one table's items within a status column. The served column
// additionally flags tables calling for their bill.
type HallGroup struct {
	TableID      uint
	Items        []Item
	CheckoutCall bool
}

type HallSnapshot struct {
	Calls   []Call // normal calls only, oldest first
	Cooking []HallGroup
	Ready   []HallGroup
	Served  []HallGroup
}

// BuildHallSnapshot partitions active items into the three hall columns,
// grouped per table and sorted by table ID.
func BuildHallSnapshot(orders []Order, calls []Call) HallSnapshot {
	var snap HallSnapshot

	checkoutTables := make(map[uint]bool)
	for _, call := range calls {
		switch call.CallType {
		case CallCheckout:
			checkoutTables[call.TableID] = true
		default:
			snap.Calls = append(snap.Calls, call)
		}
	}
	sort.Slice(snap.Calls, func(i, j int) bool {
		return snap.Calls[i].CallTime.Before(snap.Calls[j].CallTime)
	})

	type buckets struct {
		cooking, ready, served []Item
	}
	perTable := make(map[uint]*buckets)
	var tableIDs []uint
	for _, order := range orders {
		b, ok := perTable[order.TableID]
		if !ok {
			b = &buckets{}
			perTable[order.TableID] = b
			tableIDs = append(tableIDs, order.TableID)
		}
		for _, item := range order.Items {
			switch item.Status {
			case StatusCooking:
				b.cooking = append(b.cooking, item)
			case StatusReady:
				b.ready = append(b.ready, item)
			case StatusServed:
				b.served = append(b.served, item)
			}
		}
	}
	sort.Slice(tableIDs, func(i, j int) bool { return tableIDs[i] < tableIDs[j] })

	for _, tableID := range tableIDs {
		b := perTable[tableID]
		if len(b.cooking) > 0 {
			snap.Cooking = append(snap.Cooking, HallGroup{TableID: tableID, Items: b.cooking})
		}
		if len(b.ready) > 0 {
			snap.Ready = append(snap.Ready, HallGroup{TableID: tableID, Items: b.ready})
		}
		if len(b.served) > 0 {
			snap.Served = append(snap.Served, HallGroup{
				TableID:      tableID,
				Items:        b.served,
				CheckoutCall: checkoutTables[tableID],
			})
		}
	}
	return snap
}

func (s HallSnapshot) IDs() IDSet {
	set := make(IDSet)
	for _, call := range s.Calls {
		set[fmt.Sprintf("call/%d", call.TableID)] = struct{}{}
	}
	add := func(bucket string, groups []HallGroup) {
		for _, group := range groups {
			for _, item := range group.Items {
				set[fmt.Sprintf("%s/%d", bucket, item.ID)] = struct{}{}
			}
		}
	}
	add("cooking", s.Cooking)
	add("ready", s.Ready)
	add("served", s.Served)
	return set
}

/*
========================================
 REGISTER
========================================
*/

type RegisterSnapshot struct {
	Tables []TableSummary // grouped by table, as served by the backend
	Paid   []Order        // today's settled orders, newest first
}

func BuildRegisterSnapshot(tables []TableSummary, paid []Order) RegisterSnapshot {
	return RegisterSnapshot{Tables: tables, Paid: paid}
}

func (s RegisterSnapshot) IDs() IDSet {
	set := make(IDSet, len(s.Tables)+len(s.Paid))
	for _, table := range s.Tables {
		set[fmt.Sprintf("table/%d", table.TableID)] = struct{}{}
	}
	for _, order := range s.Paid {
		set[fmt.Sprintf("paid/%d", order.ID)] = struct{}{}
	}
	return set
}

/*
========================================
 CUSTOMER
========================================
*/

type CustomerSnapshot struct {
	History OrderHistory
}

func BuildCustomerSnapshot(history OrderHistory) CustomerSnapshot {
	return CustomerSnapshot{History: history}
}

func (s CustomerSnapshot) IDs() IDSet {
	set := make(IDSet, len(s.History.Items))
	for _, item := range s.History.Items {
		set[fmt.Sprintf("history/%d", item.ID)] = struct{}{}
	}
	return set
}
