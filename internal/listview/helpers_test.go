package listview

import (
	"context"
	"fmt"
)

type testParty struct {
	Name string
}

type testOrder struct {
	ID        string
	Tracking  string
	Customer  *testParty
	Status    string
	CreatedAt string
}

func orderStatus(o testOrder) string { return o.Status }

func orderBuckets() []Bucket[testOrder] {
	return []Bucket[testOrder]{
		All[testOrder]("All"),
		StatusBucket("pending", "Pending", orderStatus, "pending"),
		StatusBucket("completed", "Completed", orderStatus, "completed"),
	}
}

func orderExtractors() []Extractor[testOrder] {
	return []Extractor[testOrder]{
		func(o testOrder) string { return o.Tracking },
		func(o testOrder) string {
			if o.Customer == nil {
				return ""
			}
			return o.Customer.Name
		},
	}
}

func orderSortKeys() []SortKey[testOrder] {
	return []SortKey[testOrder]{
		{Key: "createdAt", Label: "Created", Kind: SortDate, Value: func(o testOrder) string { return o.CreatedAt }},
		{Key: "tracking", Label: "Tracking", Kind: SortText, Value: func(o testOrder) string { return o.Tracking }},
	}
}

// twentyFiveOrders returns 10 pending and 15 completed orders. Two pending
// orders and one completed order carry "ABC123" in their tracking code.
func twentyFiveOrders() []testOrder {
	orders := make([]testOrder, 0, 25)
	for i := 0; i < 25; i++ {
		status := "completed"
		if i < 10 {
			status = "pending"
		}

		tracking := fmt.Sprintf("TRK-%03d", i)
		switch i {
		case 3, 7, 20:
			tracking = fmt.Sprintf("ABC123-%02d", i)
		}

		orders = append(orders, testOrder{
			ID:        fmt.Sprintf("o-%02d", i),
			Tracking:  tracking,
			Customer:  &testParty{Name: fmt.Sprintf("Customer %d", i%4)},
			Status:    status,
			CreatedAt: fmt.Sprintf("2024-03-%02dT08:00:00Z", i+1),
		})
	}

	return orders
}

func staticLoad(orders []testOrder) LoadFunc[testOrder] {
	return func(context.Context) ([]testOrder, error) {
		return orders, nil
	}
}

func ids(orders []testOrder) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}
