package stock

// Merge folds records into one Unified record. Records are consulted in the
// order given and the first one that knows a field wins it; later records only
// fill fields still unknown. The ticker is taken from the caller.
func Merge(ticker string, records ...Partial) Unified {
	u := Unified{Ticker: ticker}
	for i := range records {
		for _, f := range fields {
			f.fill(&u.Partial, &records[i])
		}
	}
	return u
}
