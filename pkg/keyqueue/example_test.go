package keyqueue_test

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/tenantq/pkg/keyqueue"
)

func ExampleEnqueue() {
	q := keyqueue.New[string]()
	ctx := context.Background()

	balances := map[string]int{}

	for _, amount := range []int{10, 20, 30} {
		balance, err := keyqueue.Enqueue(ctx, q, "tenant-a", func(context.Context) (int, error) {
			balances["tenant-a"] += amount
			return balances["tenant-a"], nil
		})
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println(balance)
	}

	// Output:
	// 10
	// 30
	// 60
}

func ExampleQueue_Barrier() {
	q := keyqueue.New[string]()
	ctx := context.Background()

	err := q.Barrier(ctx, []string{"tenant-a", "tenant-b"}, func(context.Context) error {
		fmt.Println("all tenants drained")
		return nil
	})
	fmt.Println(err)

	// Output:
	// all tenants drained
	// <nil>
}
