package assets

import (
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// IconFrame locates one icon inside the atlas image.
type IconFrame struct {
	X       int  `json:"x"`
	Y       int  `json:"y"`
	Width   int  `json:"width"`
	Height  int  `json:"height"`
	AnchorY int  `json:"anchorY,omitempty"`
	Mask    bool `json:"mask"`
}

// IconMapping maps icon names to atlas frames.
type IconMapping map[string]IconFrame

// LoadIconMapping reads and decodes the icon mapping file.
func (d *DataSource) LoadIconMapping(ctx context.Context, locationName string, name string) (IconMapping, error) {
	reader, err := d.Open(ctx, locationName, name)
	if err != nil {
		return nil, err
	}
	defer Close(reader)

	var mapping IconMapping
	if err := json.NewDecoder(reader).Decode(&mapping); err != nil {
		return nil, errors.Wrapf(err, "decoding icon mapping %s", name)
	}
	return mapping, nil
}

// Close closes r if it holds a file.
func Close(r io.ReadSeeker) {
	if c, ok := r.(io.Closer); ok {
		c.Close()
	}
}
