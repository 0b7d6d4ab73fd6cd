package quotes

// Yahoo Finance v8 chart API response shapes. Only the fields the
// fetcher reads are declared; closes use pointers because the API emits
// JSON null for sessions without a print.

type chartResponse struct {
	Chart chartData `json:"chart"`
}

type chartData struct {
	Result []chartResult `json:"result"`
	Error  *chartError   `json:"error"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta       chartMeta       `json:"meta"`
	Timestamp  []int64         `json:"timestamp"`
	Indicators chartIndicators `json:"indicators"`
}

type chartMeta struct {
	Symbol             string  `json:"symbol"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	RegularMarketTime  int64   `json:"regularMarketTime"`
}

type chartIndicators struct {
	Quote []chartQuote `json:"quote"`
}

type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

// closeSeries flattens the close prices, dropping null entries while
// keeping each close paired with its timestamp.
func (r chartResult) closeSeries() ([]float64, []int64) {
	if len(r.Indicators.Quote) == 0 {
		return nil, nil
	}
	raw := r.Indicators.Quote[0].Close
	closes := make([]float64, 0, len(raw))
	stamps := make([]int64, 0, len(raw))
	for i, c := range raw {
		if c == nil {
			continue
		}
		closes = append(closes, *c)
		if i < len(r.Timestamp) {
			stamps = append(stamps, r.Timestamp[i])
		} else {
			stamps = append(stamps, 0)
		}
	}
	return closes, stamps
}
