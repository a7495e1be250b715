package repository

import (
	"math"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of prometheus.WriteRequest and its nested messages
const (
	writeRequestTimeseries protowire.Number = 1
	timeSeriesLabels       protowire.Number = 1
	timeSeriesSamples      protowire.Number = 2
	labelName              protowire.Number = 1
	labelValue             protowire.Number = 2
	sampleValue            protowire.Number = 1
	sampleTimestamp        protowire.Number = 2
)

// encodeWriteRequest encodes a single-sample WriteRequest. Labels are sorted
// by name with __name__ first, as remote write receivers require.
func encodeWriteRequest(metricName string, value float64, labels map[string]string, timestampMillis int64) []byte {
	names := make([]string, 0, len(labels))
	for name := range labels {
		if name == "__name__" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var series []byte
	series = appendLabel(series, "__name__", metricName)
	for _, name := range names {
		series = appendLabel(series, name, labels[name])
	}

	var sample []byte
	sample = protowire.AppendTag(sample, sampleValue, protowire.Fixed64Type)
	sample = protowire.AppendFixed64(sample, math.Float64bits(value))
	sample = protowire.AppendTag(sample, sampleTimestamp, protowire.VarintType)
	sample = protowire.AppendVarint(sample, uint64(timestampMillis))

	series = protowire.AppendTag(series, timeSeriesSamples, protowire.BytesType)
	series = protowire.AppendBytes(series, sample)

	var req []byte
	req = protowire.AppendTag(req, writeRequestTimeseries, protowire.BytesType)
	req = protowire.AppendBytes(req, series)
	return req
}

func appendLabel(b []byte, name, value string) []byte {
	var label []byte
	label = protowire.AppendTag(label, labelName, protowire.BytesType)
	label = protowire.AppendString(label, name)
	label = protowire.AppendTag(label, labelValue, protowire.BytesType)
	label = protowire.AppendString(label, value)

	b = protowire.AppendTag(b, timeSeriesLabels, protowire.BytesType)
	return protowire.AppendBytes(b, label)
}
