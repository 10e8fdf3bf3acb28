// Package resilience groups the fault tolerance building blocks for
// external calls: circuit breakers around the Claude, OpenAI, Finnhub
// and content-fetch clients, and retry with exponential backoff.
//
// The two compose with the breaker inside the retry, so a retry burst
// cannot keep hammering a provider the breaker has already given up on:
//
//	cb := circuitbreaker.New(circuitbreaker.FinnhubAPIConfig())
//	err := retry.WithBackoff(ctx, retry.MarketDataConfig(), func() error {
//		_, err := cb.Execute(callProvider)
//		return err
//	})
package resilience
