package codec

import "fmt"

// FormatOptions identifies a dictionary format version
type FormatOptions struct {
	Version               int
	SupportsDynamicUpdate bool
	HasTimestamp          bool
}

var (
	Version2              = FormatOptions{Version: 2}
	Version3Static        = FormatOptions{Version: 3}
	Version3Dynamic       = FormatOptions{Version: 3, SupportsDynamicUpdate: true}
	Version4Static        = FormatOptions{Version: 4}
	Version4Dynamic       = FormatOptions{Version: 4, SupportsDynamicUpdate: true}
	Version4WithTimestamp = FormatOptions{Version: 4, SupportsDynamicUpdate: true, HasTimestamp: true}
)

func (o FormatOptions) String() string {
	kind := "static"
	if o.SupportsDynamicUpdate {
		kind = "dynamic"
	}
	if o.HasTimestamp {
		kind += "+timestamp"
	}
	return fmt.Sprintf("v%d/%s", o.Version, kind)
}

// DecoderFor returns the node field decoder for a format. Only version 4
// dictionaries carry terminal ids and moved nodes.
func DecoderFor(opts FormatOptions) (FieldDecoder, error) {
	if opts.Version == 4 {
		return Ver4{}, nil
	}
	return nil, fmt.Errorf("%s: %w", opts, ErrUnsupportedFormat)
}
