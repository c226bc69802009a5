package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathForGenesisSnapshot(t *testing.T) {
	p, err := SnapshotPath(-1)
	assert.Nil(t, err)
	assert.Equal(t, "blockchain-states/0/0/0/0/0/0/0/0/000000000!-blockchain-state.msgpack", p)
}

func TestPathForSpreadsDigitsAcrossLevels(t *testing.T) {
	p, err := PathFor(123456789, KindBlockchainState)
	assert.Nil(t, err)
	assert.Equal(t, "blockchain-states/1/2/3/4/5/6/7/8/123456789!-blockchain-state.msgpack", p)

	p, err = BlockPath(42)
	assert.Nil(t, err)
	assert.Equal(t, "block-chunks/0/0/0/0/0/0/0/4/000000042!-block-chunk.msgpack", p)
}

func TestPathForRejectsBadNumbers(t *testing.T) {
	_, err := PathFor(-1, KindBlockChunk)
	assert.Equal(t, ErrNegativeNumber, err)

	_, err = PathFor(1000000000, KindBlockChunk)
	assert.Equal(t, ErrAddressOverflow, err)

	_, err = PathFor(maxFileNumber, KindBlockChunk)
	assert.Nil(t, err)

	_, err = SnapshotPath(-2)
	assert.Equal(t, ErrNegativeNumber, err)

	_, err = SnapshotPath(maxFileNumber)
	assert.Equal(t, ErrAddressOverflow, err)

	_, err = PathFor(1, ArtifactKind("ballot"))
	assert.Equal(t, ErrUnknownKind, err)
}

func TestDecodePathInvertsPathFor(t *testing.T) {
	numbers := []int64{0, 1, 9, 10, 99, 100, 123456789, maxFileNumber}
	for _, kind := range []ArtifactKind{KindBlockchainState, KindBlockChunk} {
		for _, n := range numbers {
			p, err := PathFor(n, kind)
			assert.Nil(t, err)
			decoded, decodedKind, err := DecodePath(p)
			assert.Nil(t, err)
			assert.Equal(t, n, decoded)
			assert.Equal(t, kind, decodedKind)
		}
	}
}

func TestDecodePathRejectsMalformedPaths(t *testing.T) {
	malformed := []string{
		"",
		"blockchain-states",
		"blockchain-states/0/0/0/0/0/0/0/0",
		"blockchain-states/0/0/0/0/0/0/0/0/000000000!-block-chunk.msgpack",
		"block-chunks/0/0/0/0/0/0/0/0/000000000!-blockchain-state.msgpack",
		"ballots/0/0/0/0/0/0/0/0/000000000!-ballot.msgpack",
		"blockchain-states/0/0/0/0/0/0/0/1/000000000!-blockchain-state.msgpack",
		"blockchain-states/0/0/0/0/0/0/0/0/00000000!-blockchain-state.msgpack",
		"blockchain-states/0/0/0/0/0/0/0/0/00000000x!-blockchain-state.msgpack",
		"blockchain-states/0/0/0/0/0/0/0/0/000000000!-blockchain-state.json",
		"blockchain-states/0/0/0/0/0/0/0/0/000000000-blockchain-state.msgpack",
		"blockchain-states/0/0/0/0/0/0/0/0/000000000!-blockchain-state.msgpack.tmp42",
	}
	for _, p := range malformed {
		_, _, err := DecodePath(p)
		assert.Equal(t, ErrMalformedPath, err, "path %q", p)
	}
}

func TestNewStateMeta(t *testing.T) {
	meta, err := NewStateMeta(-1, []string{"http://localhost:8555", "https://mirror.example.com/"})
	assert.Nil(t, err)
	assert.Equal(t, int64(-1), meta.LastBlockNumber)
	assert.Equal(t, "/blockchain/blockchain-states/0/0/0/0/0/0/0/0/000000000!-blockchain-state.msgpack", meta.URLPath)
	assert.Equal(t, []string{
		"http://localhost:8555/blockchain/blockchain-states/0/0/0/0/0/0/0/0/000000000!-blockchain-state.msgpack",
		"https://mirror.example.com/blockchain/blockchain-states/0/0/0/0/0/0/0/0/000000000!-blockchain-state.msgpack",
	}, meta.URLs)

	meta, err = NewStateMeta(0, []string{"http://localhost:8555"})
	assert.Nil(t, err)
	assert.Equal(t, int64(0), meta.LastBlockNumber)
	assert.Equal(t, "/blockchain/blockchain-states/0/0/0/0/0/0/0/0/000000001!-blockchain-state.msgpack", meta.URLPath)
}
