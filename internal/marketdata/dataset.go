package marketdata

// Instrument is one configured symbol with its human-readable sector label.
type Instrument struct {
	Symbol string `json:"symbol"`
	Sector string `json:"sector"`
}

// Dataset holds the return series for every instrument that produced data
// in one batch, preserving universe order for legend and color assignment.
type Dataset struct {
	instruments []Instrument
	series      map[string]ReturnSeries
}

// NewDataset creates an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{
		series: make(map[string]ReturnSeries),
	}
}

// Add appends an instrument and its series. An instrument already present
// is ignored so a duplicate universe entry cannot overwrite earlier data.
func (d *Dataset) Add(inst Instrument, s ReturnSeries) {
	if _, ok := d.series[inst.Symbol]; ok {
		return
	}
	d.instruments = append(d.instruments, inst)
	d.series[inst.Symbol] = s
}

// Get returns the series for a symbol.
func (d *Dataset) Get(symbol string) (ReturnSeries, bool) {
	s, ok := d.series[symbol]
	return s, ok
}

// Instruments returns the instruments in insertion order.
func (d *Dataset) Instruments() []Instrument {
	return d.instruments
}

// Len reports how many instruments produced data.
func (d *Dataset) Len() int {
	return len(d.instruments)
}
