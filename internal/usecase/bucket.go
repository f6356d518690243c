package usecase

// PriceBucket is one row of the classification table: the lowest price that
// falls into the bucket plus its presentation label and pin color.
type PriceBucket struct {
	Min   int64
	Label string
	Color string
}

// priceBuckets is consulted top to bottom, first match wins. The thresholds
// partition the positive price range; everything else (missing, unparseable,
// zero or negative) lands in unknownBucket.
var priceBuckets = []PriceBucket{
	{Min: 300_000, Label: "$300k+", Color: "red"},
	{Min: 200_000, Label: "$200k - $299k", Color: "lightred"},
	{Min: 100_000, Label: "$100k - $199k", Color: "orange"},
	{Min: 1, Label: "Cash < $100k", Color: "green"},
}

var unknownBucket = PriceBucket{Label: "Unknown", Color: "gray"}

// ClassifyPrice assigns a price to its presentation bucket. Total: every
// int64 maps to exactly one bucket.
func ClassifyPrice(price int64) PriceBucket {
	for _, b := range priceBuckets {
		if price >= b.Min {
			return b
		}
	}
	return unknownBucket
}

// BucketOrder returns all bucket labels in fixed presentation order,
// highest price range first, Unknown last. Layer creation follows this order
// so artifacts stay byte-stable across runs.
func BucketOrder() []PriceBucket {
	out := make([]PriceBucket, 0, len(priceBuckets)+1)
	out = append(out, priceBuckets...)
	return append(out, unknownBucket)
}
