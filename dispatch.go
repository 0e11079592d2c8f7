package batchconv

import (
	"fmt"
	"slices"
)

// dispatch resolves one item to its outcome. It never propagates a
// collaborator fault: panics inside Convert are recovered and recorded as an
// internal error on this item alone.
func (e *Engine) dispatch(item SourceItem, target string, allowed []string, opts ConvertOptions) (out ConversionOutcome) {
	out = ConversionOutcome{Name: item.Name, Origin: item.Origin}

	// Collection already failed this item (unreachable URL, corrupt entry).
	if !item.Collected() {
		out.Status = StatusFailed
		out.ErrorKind = item.FailKind
		out.ErrorMessage = item.FailMessage
		return out
	}

	if len(allowed) > 0 && !slices.Contains(allowed, item.Format) {
		out.Status = StatusSkipped
		out.ErrorKind = KindUnsupportedSource
		out.ErrorMessage = fmt.Sprintf("source format %q is not in the allow-list", item.Format)
		return out
	}

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("converter panicked", "item", item.Name, "panic", r)
			out = ConversionOutcome{
				Name:         item.Name,
				Origin:       item.Origin,
				Status:       StatusFailed,
				ErrorKind:    KindInternal,
				ErrorMessage: fmt.Sprintf("converter panic: %v", r),
			}
		}
	}()

	e.log.Debug("dispatching item", "item", item.Name, "from", item.Format, "to", target)
	data, code, err := e.converter.Convert(item.Payload, item.Format, target, opts)

	switch code {
	case StatusOK:
		out.Status = StatusSuccess
		out.OutputName = outputName(item.Name, target)
		out.OutputBytes = data
	case StatusUnsupportedPair:
		out.Status = StatusFailed
		out.ErrorKind = KindUnsupportedPair
		out.ErrorMessage = statusMessage(err, "no converter for this format pair")
	case StatusMalformedSource:
		out.Status = StatusFailed
		out.ErrorKind = KindMalformedSource
		out.ErrorMessage = statusMessage(err, "source rejected")
	default:
		out.Status = StatusFailed
		out.ErrorKind = KindInternal
		out.ErrorMessage = statusMessage(err, "converter failed")
	}
	return out
}

// statusMessage preserves the collaborator's message verbatim, with a
// fallback for converters that return a bare status.
func statusMessage(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}

// outputName derives <stem>.<target> from the input name. Collisions among
// successes are resolved later, at packaging time, in manifest order.
func outputName(name, target string) string {
	stem := name
	if ext := formatOf(name); ext != "" {
		stem = name[:len(name)-len(ext)-1]
	}
	if stem == "" {
		stem = "output"
	}
	return stem + "." + target
}
