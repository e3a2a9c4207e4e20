package snapshot

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// word separator used in snapshot file naming
	sep = "-"
	// suffix of the snapshot file
	fileSuffix = "authorities.json"
)

// ID is a unique identifier of the snapshot.
type ID struct {
	// Label of the snapshot source (e.g. testnet, mainnet).
	Label string
	// Blockchain height at which the state was pulled.
	Block uint32
}

// String returns hyphen-separated ID fields.
func (x ID) String() string {
	return x.Label + sep + strconv.FormatUint(uint64(x.Block), 10)
}

// FileName returns name of the snapshot file with the given ID.
func (x ID) FileName() string {
	return strings.Join([]string{x.String(), fileSuffix}, sep)
}

// decodeFileName decodes ID fields from the snapshot file name. Label must not
// contain separator.
func (x *ID) decodeFileName(s string) error {
	if !strings.HasSuffix(s, sep+fileSuffix) {
		return fmt.Errorf("missing '%s' suffix", sep+fileSuffix)
	}

	ss := strings.Split(strings.TrimSuffix(s, sep+fileSuffix), sep)
	if len(ss) != 2 {
		return fmt.Errorf("expected '%s'-separated label and block", sep)
	}

	n, err := strconv.ParseUint(ss[1], 10, 32)
	if err != nil {
		return fmt.Errorf("decode block number from '%s': %w", ss[1], err)
	}

	x.Label = ss[0]
	x.Block = uint32(n)

	return nil
}
