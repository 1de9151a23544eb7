package trade

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sniper-art710/Deriv-botss/internal/deriv"
)

// fakeChannel replays a script of responses, one per Call, in order.
type fakeChannel struct {
	mu     sync.Mutex
	script []func(req any, resp deriv.Response) error
	calls  int
}

func (f *fakeChannel) Call(_ context.Context, req any, resp deriv.Response) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls >= len(f.script) {
		return fmt.Errorf("unexpected call %d", f.calls+1)
	}
	step := f.script[f.calls]
	f.calls++
	return step(req, resp)
}

func apiReject(code, msg string) func(req any, resp deriv.Response) error {
	return func(req any, resp deriv.Response) error {
		return &deriv.APIError{Code: code, Message: msg}
	}
}

func contractStatus(sold bool, profit float64) func(req any, resp deriv.Response) error {
	return func(req any, resp deriv.Response) error {
		oc := &deriv.OpenContract{Profit: profit}
		if sold {
			oc.IsSold = 1
		}
		resp.(*deriv.OpenContractResponse).ProposalOpenContract = oc
		return nil
	}
}

func TestPlacerBuildsBuyRequest(t *testing.T) {
	var captured deriv.BuyRequest
	ch := &fakeChannel{script: []func(req any, resp deriv.Response) error{
		func(req any, resp deriv.Response) error {
			captured = req.(deriv.BuyRequest)
			resp.(*deriv.BuyResponse).Buy = &deriv.BuyResult{ContractID: 42}
			return nil
		},
	}}
	params := Params{Symbol: "R_50", ContractType: "DIGITDIFF", DurationTicks: 2, Currency: "USD", LastDigit: 5}

	pos, err := NewPlacer(ch, params, zerolog.Nop()).Place(context.Background(), 104.04)
	if err != nil {
		t.Fatalf("Place returned error: %v", err)
	}
	if pos.ContractID != 42 || pos.Stake != 104.04 {
		t.Fatalf("unexpected position: %+v", pos)
	}
	if pos.TraceID == "" {
		t.Fatalf("position is missing its trace id")
	}

	if captured.Buy != 1 || captured.Price != 104.04 {
		t.Fatalf("unexpected buy header: %+v", captured)
	}
	p := captured.Parameters
	if p.Amount != 104.04 || p.Basis != "stake" || p.ContractType != "DIGITDIFF" ||
		p.Currency != "USD" || p.Duration != 2 || p.DurationUnit != "t" ||
		p.Symbol != "R_50" || p.Barrier != "5" {
		t.Fatalf("unexpected buy parameters: %+v", p)
	}
	if captured.Passthrough["trade_id"] != pos.TraceID {
		t.Fatalf("passthrough trade id mismatch: %+v", captured.Passthrough)
	}
}

func TestPlacerSurfacesRejection(t *testing.T) {
	ch := &fakeChannel{script: []func(req any, resp deriv.Response) error{
		apiReject("ContractBuyValidationError", "stake too low"),
	}}

	_, err := NewPlacer(ch, Params{}, zerolog.Nop()).Place(context.Background(), 0.1)
	var apiErr *deriv.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got: %v", err)
	}
}

func TestPlacerRejectsMissingContractID(t *testing.T) {
	ch := &fakeChannel{script: []func(req any, resp deriv.Response) error{
		func(req any, resp deriv.Response) error { return nil }, // empty reply
	}}

	_, err := NewPlacer(ch, Params{}, zerolog.Nop()).Place(context.Background(), 1)
	if err == nil {
		t.Fatalf("expected error for reply without contract id")
	}
}

func TestMonitorReportsWin(t *testing.T) {
	ch := &fakeChannel{script: []func(req any, resp deriv.Response) error{
		contractStatus(false, 0),
		contractStatus(false, 0),
		contractStatus(true, 1.9),
	}}
	m := NewMonitor(ch, time.Millisecond, zerolog.Nop())

	st, err := m.AwaitSettlement(context.Background(), Position{ContractID: 7})
	if err != nil {
		t.Fatalf("AwaitSettlement returned error: %v", err)
	}
	if !st.Won || st.Profit != 1.9 || st.ContractID != 7 {
		t.Fatalf("unexpected settlement: %+v", st)
	}
	if ch.calls != 3 {
		t.Fatalf("expected 3 polls, got %d", ch.calls)
	}
}

func TestMonitorClassifiesZeroProfitAsLost(t *testing.T) {
	for _, profit := range []float64{0, -2.5} {
		ch := &fakeChannel{script: []func(req any, resp deriv.Response) error{
			contractStatus(true, profit),
		}}
		st, err := NewMonitor(ch, time.Millisecond, zerolog.Nop()).
			AwaitSettlement(context.Background(), Position{ContractID: 9})
		if err != nil {
			t.Fatalf("profit %v: AwaitSettlement returned error: %v", profit, err)
		}
		if st.Won {
			t.Fatalf("profit %v must classify as lost", profit)
		}
	}
}

func TestMonitorStopsOnErrorEnvelope(t *testing.T) {
	ch := &fakeChannel{script: []func(req any, resp deriv.Response) error{
		contractStatus(false, 0),
		apiReject("ContractNotFound", "unknown contract"),
	}}
	m := NewMonitor(ch, time.Millisecond, zerolog.Nop())

	_, err := m.AwaitSettlement(context.Background(), Position{ContractID: 7})
	var apiErr *deriv.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got: %v", err)
	}
	if ch.calls != 2 {
		t.Fatalf("monitor must stop polling after an error, polled %d times", ch.calls)
	}
}

func TestMonitorHonorsDeadline(t *testing.T) {
	never := make([]func(req any, resp deriv.Response) error, 1000)
	for i := range never {
		never[i] = contractStatus(false, 0)
	}
	ch := &fakeChannel{script: never}
	m := NewMonitor(ch, time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Millisecond)
	defer cancel()
	_, err := m.AwaitSettlement(ctx, Position{ContractID: 7})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got: %v", err)
	}
}
