package integration

import (
	"net/http"
	"testing"
)

func TestDebtFlow_RepaymentToPayoff(t *testing.T) {
	app := setupApp(t)
	token := app.token(t, "alice")

	rec := app.request("POST", "/api/v1/accounts",
		`{"name":"招商银行","currency":"CNY","initial_balance":100000}`, token)
	expectStatus(t, rec, http.StatusCreated)

	// Debt of 500.00 CNY.
	rec = app.request("POST", "/api/v1/debts",
		`{"name":"车贷","total":50000,"currency":"CNY"}`, token)
	expectStatus(t, rec, http.StatusCreated)

	// Repay 600.00: overpayment floors remaining at zero.
	rec = app.request("POST", "/api/v1/debts/车贷/repayments",
		`{"account":"招商银行","amount":60000,"date":"2026-03-15"}`, token)
	expectStatus(t, rec, http.StatusCreated)

	rec = app.request("GET", "/api/v1/debts", "", token)
	expectStatus(t, rec, http.StatusOK)
	debts := parseJSON(t, rec)["debts"].([]interface{})
	debt := debts[0].(map[string]interface{})
	if debt["remaining"].(float64) != 0 {
		t.Errorf("expected remaining 0, got %v", debt["remaining"])
	}
	if debt["status"] != "paid_off" {
		t.Errorf("expected paid_off, got %v", debt["status"])
	}
	repayments := debt["repayment_history"].([]interface{})
	if len(repayments) != 1 {
		t.Fatalf("expected 1 repayment record, got %d", len(repayments))
	}
	recordID := repayments[0].(map[string]interface{})["id"].(string)

	// The paying account was debited by the full payment.
	rec = app.request("GET", "/api/v1/accounts", "", token)
	expectStatus(t, rec, http.StatusOK)
	accounts := parseJSON(t, rec)["accounts"].([]interface{})
	if got := accounts[0].(map[string]interface{})["balance"].(float64); got != 40000 {
		t.Errorf("expected balance 40000, got %v", got)
	}

	// Deleting the repayment record reverses balance, debt, and log.
	rec = app.request("DELETE", "/api/v1/debts/车贷/repayments/"+recordID, "", token)
	expectStatus(t, rec, http.StatusOK)

	rec = app.request("GET", "/api/v1/debts", "", token)
	expectStatus(t, rec, http.StatusOK)
	debts = parseJSON(t, rec)["debts"].([]interface{})
	debt = debts[0].(map[string]interface{})
	if debt["remaining"].(float64) != 50000 || debt["status"] != "repaying" {
		t.Errorf("expected remaining 50000 repaying, got %v %v", debt["remaining"], debt["status"])
	}

	rec = app.request("GET", "/api/v1/transactions", "", token)
	expectStatus(t, rec, http.StatusOK)
	if got := parseJSON(t, rec)["count"].(float64); got != 0 {
		t.Errorf("expected empty log, got %v entries", got)
	}
}

func TestDebtFlow_RepaymentRejectedOnInsufficientBalance(t *testing.T) {
	app := setupApp(t)
	token := app.token(t, "alice")

	rec := app.request("POST", "/api/v1/accounts",
		`{"name":"招商银行","currency":"CNY","initial_balance":1000}`, token)
	expectStatus(t, rec, http.StatusCreated)
	rec = app.request("POST", "/api/v1/debts",
		`{"name":"车贷","total":50000,"currency":"CNY"}`, token)
	expectStatus(t, rec, http.StatusCreated)

	rec = app.request("POST", "/api/v1/debts/车贷/repayments",
		`{"account":"招商银行","amount":30000}`, token)
	expectStatus(t, rec, http.StatusBadRequest)

	// Nothing changed.
	rec = app.request("GET", "/api/v1/debts", "", token)
	expectStatus(t, rec, http.StatusOK)
	debts := parseJSON(t, rec)["debts"].([]interface{})
	if got := debts[0].(map[string]interface{})["remaining"].(float64); got != 50000 {
		t.Errorf("expected remaining 50000, got %v", got)
	}
}

func TestDebtFlow_DeleteWithOutstandingBalanceWarns(t *testing.T) {
	app := setupApp(t)
	token := app.token(t, "alice")

	rec := app.request("POST", "/api/v1/debts",
		`{"name":"车贷","total":50000,"currency":"CNY"}`, token)
	expectStatus(t, rec, http.StatusCreated)

	rec = app.request("DELETE", "/api/v1/debts/车贷", "", token)
	expectStatus(t, rec, http.StatusOK)
	result := parseJSON(t, rec)
	if result["warning"] == nil {
		t.Error("expected a warning deleting an unpaid debt")
	}

	rec = app.request("GET", "/api/v1/debts", "", token)
	expectStatus(t, rec, http.StatusOK)
	if got := parseJSON(t, rec)["count"].(float64); got != 0 {
		t.Errorf("expected no debts left, got %v", got)
	}
}

func TestDebtFlow_UsersAreIsolated(t *testing.T) {
	app := setupApp(t)
	alice := app.token(t, "alice")
	bob := app.token(t, "bob")

	rec := app.request("POST", "/api/v1/debts",
		`{"name":"车贷","total":50000,"currency":"CNY"}`, alice)
	expectStatus(t, rec, http.StatusCreated)

	rec = app.request("GET", "/api/v1/debts", "", bob)
	expectStatus(t, rec, http.StatusOK)
	if got := parseJSON(t, rec)["count"].(float64); got != 0 {
		t.Errorf("expected empty ledger for bob, got %v debts", got)
	}
}
