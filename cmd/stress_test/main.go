package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/rl1809/cart-manager/internal/adapter/storage"
	"github.com/rl1809/cart-manager/internal/core/domain"
	"github.com/rl1809/cart-manager/internal/core/service"
)

const (
	redisAddr     = "localhost:6379"
	cartKey       = "stress:cart"
	productID     = int64(42)
	initialStock  = 20
	totalRequests = 50
)

// catalog serves a single product so only stock and persistence go through redis.
type catalog struct{}

func (catalog) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if id != productID {
		return nil, domain.ErrProductNotFound
	}
	return &domain.Product{ID: id, Title: "Tênis de Caminhada", Price: decimal.RequireFromString("179.90")}, nil
}

func main() {
	ctx := context.Background()

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	// Clear previous test data
	rdb.Del(ctx, cartKey)

	redisAdapter := storage.NewRedisAdapter(rdb)
	if err := redisAdapter.SetStock(ctx, productID, initialStock); err != nil {
		log.Fatalf("failed to set stock: %v", err)
	}

	cart, err := service.NewCartService(ctx, catalog{}, redisAdapter, redisAdapter, service.WithSnapshotKey(cartKey))
	if err != nil {
		log.Fatalf("failed to create cart: %v", err)
	}

	// Counters
	var successCount atomic.Int32
	var outOfStockCount atomic.Int32
	var failCount atomic.Int32

	// Spawn concurrent adds of the same product
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			switch err := cart.AddProduct(ctx, productID); {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrOutOfStock):
				outOfStockCount.Add(1)
			default:
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	outOfStock := outOfStockCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Out of stock:     %d\n", outOfStock)
	fmt.Printf("Failed:           %d\n", failCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if success == initialStock && outOfStock == totalRequests-initialStock {
		fmt.Printf("PASS: exactly %d adds succeeded, %d rejected\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: expected %d success/%d out of stock, got %d/%d\n",
			initialStock, totalRequests-initialStock, success, outOfStock)
	}

	// Verify the persisted snapshot agrees with memory
	reloaded, err := service.NewCartService(ctx, catalog{}, redisAdapter, redisAdapter, service.WithSnapshotKey(cartKey))
	if err != nil {
		log.Fatalf("failed to reload cart: %v", err)
	}
	items := reloaded.Cart()
	if len(items) == 1 && items[0].Amount == initialStock {
		fmt.Printf("PASS: persisted amount is %d\n", items[0].Amount)
	} else {
		fmt.Printf("FAIL: persisted cart %+v\n", items)
	}
}
