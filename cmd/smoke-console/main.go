// Command smoke-console drives a running API through the full console flow:
// register, verify, login, onboard an organization, publish a vehicle and
// take a checkout through to paid. It exercises the same client, session and
// routing modules the console builds on.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"wisatara.id/internal/apiclient"
	"wisatara.id/internal/routing"
	"wisatara.id/internal/session"
)

type registerPayload struct {
	RegisterToken string `json:"register_token"`
}

type sessionPayload struct {
	Token string `json:"token"`
}

type orgPayload struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type orderPayload struct {
	ID     string `json:"id"`
	Total  int64  `json:"total"`
	Status string `json:"status"`
}

func main() {
	base := os.Getenv("WISATARA_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}

	sess := session.NewStore(session.NewMemory())
	client := apiclient.New(base, apiclient.WithTokenSource(sess.Token))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	email := fmt.Sprintf("smoke-%d@wisatara.id", rand.Int())

	resp, err := client.Post(ctx, "/v1/auth/register", map[string]any{
		"name": "Smoke Operator", "email": email, "password": "panjang-rahasia-1",
	})
	must("register", resp, err)
	var reg registerPayload
	if err := resp.DecodeData(&reg); err != nil {
		log.Fatalf("decode register: %v", err)
	}

	resp, err = client.Post(ctx, "/v1/auth/verify", map[string]any{"token": reg.RegisterToken})
	must("verify", resp, err)

	resp, err = client.Post(ctx, "/v1/auth/login", map[string]any{
		"email": email, "password": "panjang-rahasia-1",
	})
	must("login", resp, err)
	var sp sessionPayload
	if err := resp.DecodeData(&sp); err != nil {
		log.Fatalf("decode login: %v", err)
	}
	if err := sess.SetToken(sp.Token); err != nil {
		log.Fatalf("store token: %v", err)
	}

	// A fresh partner has no organization yet; the router must send the
	// partner home to onboarding.
	if target, ok := routing.Decide(routing.PartnerPrefix, sess.Resolve()); !ok || target != routing.OnboardingChoicePath {
		log.Fatalf("routing before onboarding: target=%q ok=%v", target, ok)
	}

	resp, err = client.Post(ctx, "/v1/organizations", map[string]any{
		"name": "Smoke Armada Jaya", "type": "fleet-owner",
	})
	must("create organization", resp, err)
	var org orgPayload
	if err := resp.DecodeData(&org); err != nil {
		log.Fatalf("decode organization: %v", err)
	}
	if err := sess.SetOrganization(org.ID, org.Name, org.Code); err != nil {
		log.Fatalf("store organization: %v", err)
	}

	// Refresh picks up the tenant claims.
	resp, err = client.Post(ctx, "/v1/auth/refresh", nil)
	must("refresh", resp, err)
	if err := resp.DecodeData(&sp); err != nil {
		log.Fatalf("decode refresh: %v", err)
	}
	if err := sess.SetToken(sp.Token); err != nil {
		log.Fatalf("store refreshed token: %v", err)
	}
	if target, ok := routing.Decide(routing.PartnerPrefix, sess.Resolve()); ok {
		log.Fatalf("routing after onboarding still redirects to %q", target)
	}

	resp, err = client.Post(ctx, "/v1/armada", map[string]any{
		"name": "Jetbus 3+", "plate_number": fmt.Sprintf("B %d XY", 1000+rand.Intn(9000)),
		"capacity": 50, "price_per_day": 2_500_000,
	})
	must("create armada", resp, err)

	resp, err = client.Post(ctx, "/v1/checkout", map[string]any{
		"organization_id": org.ID,
		"kind":            "fleet",
		"customer_name":   "Ibu Sari",
		"customer_email":  "sari@example.com",
		"start_date":      "2026-09-14",
		"participants":    45,
		"items": []map[string]any{
			{"description": "Jetbus 3+ x 3 hari", "quantity": 3, "unit_price": 2_500_000},
		},
	})
	must("checkout", resp, err)
	var order orderPayload
	if err := resp.DecodeData(&order); err != nil {
		log.Fatalf("decode order: %v", err)
	}
	if order.Total != 7_500_000 {
		log.Fatalf("order total %d, want 7500000", order.Total)
	}

	resp, err = client.Put(ctx, "/v1/orders/"+order.ID+"/status", map[string]any{"status": "paid"})
	must("mark paid", resp, err)
	if err := resp.DecodeData(&order); err != nil {
		log.Fatalf("decode paid order: %v", err)
	}
	if order.Status != "paid" {
		log.Fatalf("order status %q, want paid", order.Status)
	}

	fmt.Printf("✅ console smoke test passed: org=%s order=%s\n", org.Code, order.ID)
}

func must(step string, resp apiclient.Response, err error) {
	if err != nil {
		log.Fatalf("%s: %v", step, err)
	}
	if !resp.OK() {
		log.Fatalf("%s: %s", step, resp.Message)
	}
}
