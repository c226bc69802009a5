// Package filestore lays out and stores the durable blockchain artifacts:
// block records and blockchain state snapshots, addressed by a fixed width
// digit tree that keeps every directory's fan-out at ten entries or less.
package filestore

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
)

// ArtifactKind selects the addressing family of a durable artifact.
type ArtifactKind string

const (
	KindBlockchainState ArtifactKind = "blockchain-state"
	KindBlockChunk      ArtifactKind = "block-chunk"
)

// subdirectory is the per-kind top level directory.
func (k ArtifactKind) subdirectory() string {
	return string(k) + "s"
}

const (
	// addressWidth is the zero padded digit width of artifact file numbers.
	// Nine digits address one billion artifacts per kind.
	addressWidth = 9
	// maxFileNumber is the largest number addressWidth can carry.
	maxFileNumber = int64(999999999)
	// boundaryMark separates the padded number from the kind suffix.
	boundaryMark = "!"
	// fileExtension denotes the artifact serialization format.
	fileExtension = ".msgpack"
	// URLPathPrefix is where the HTTP server mounts the artifact tree.
	URLPathPrefix = "/blockchain/"
)

var (
	ErrNegativeNumber  = errors.New("artifact number must not be negative")
	ErrAddressOverflow = errors.New("artifact number exceeds addressable width")
	ErrUnknownKind     = errors.New("unknown artifact kind")
	ErrMalformedPath   = errors.New("malformed artifact path")
)

// PathFor returns the storage relative path of the artifact with the given
// file number. The number is zero padded to addressWidth digits; the first
// addressWidth-1 digits become nested directory levels and the filename
// carries the full padded number, the boundary mark and the kind suffix.
// File number 0 of kind blockchain-state yields
// "blockchain-states/0/0/0/0/0/0/0/0/000000000!-blockchain-state.msgpack".
func PathFor(fileNumber int64, kind ArtifactKind) (string, error) {
	switch kind {
	case KindBlockchainState, KindBlockChunk:
	default:
		return "", ErrUnknownKind
	}
	if fileNumber < 0 {
		return "", ErrNegativeNumber
	}
	if fileNumber > maxFileNumber {
		return "", ErrAddressOverflow
	}
	padded := fmt.Sprintf("%0*d", addressWidth, fileNumber)
	elems := make([]string, 0, addressWidth+1)
	elems = append(elems, kind.subdirectory())
	for i := 0; i < addressWidth-1; i++ {
		elems = append(elems, string(padded[i]))
	}
	elems = append(elems, padded+boundaryMark+"-"+string(kind)+fileExtension)
	return path.Join(elems...), nil
}

// DecodePath is the exact inverse of PathFor. It rejects any path PathFor
// could not have produced, including directory levels that disagree with
// the padded filename digits.
func DecodePath(artifactPath string) (int64, ArtifactKind, error) {
	parts := strings.Split(path.Clean(artifactPath), "/")
	if len(parts) != addressWidth+1 {
		return 0, "", ErrMalformedPath
	}
	var kind ArtifactKind
	switch parts[0] {
	case KindBlockchainState.subdirectory():
		kind = KindBlockchainState
	case KindBlockChunk.subdirectory():
		kind = KindBlockChunk
	default:
		return 0, "", ErrMalformedPath
	}
	name := parts[len(parts)-1]
	suffix := boundaryMark + "-" + string(kind) + fileExtension
	if len(name) != addressWidth+len(suffix) || name[addressWidth:] != suffix {
		return 0, "", ErrMalformedPath
	}
	padded := name[:addressWidth]
	for i := 0; i < addressWidth-1; i++ {
		if parts[i+1] != string(padded[i]) {
			return 0, "", ErrMalformedPath
		}
	}
	fileNumber, err := strconv.ParseInt(padded, 10, 64)
	if err != nil || fileNumber < 0 {
		return 0, "", ErrMalformedPath
	}
	return fileNumber, kind, nil
}

// SnapshotPath addresses the snapshot of the state whose last block number
// is given. Snapshots are addressed by the number of the next block, so the
// genesis state (last block number -1) lives at file number 0 and the state
// after block N at file number N+1.
func SnapshotPath(lastBlockNumber int64) (string, error) {
	if lastBlockNumber < -1 {
		return "", ErrNegativeNumber
	}
	return PathFor(lastBlockNumber+1, KindBlockchainState)
}

// BlockPath addresses the record of block number n.
func BlockPath(n int64) (string, error) {
	return PathFor(n, KindBlockChunk)
}

// URLPath returns the public HTTP path an artifact is served under.
func URLPath(artifactPath string) string {
	return URLPathPrefix + artifactPath
}

// StateMeta is the addressing metadata of one snapshot artifact: the last
// block number it reflects, its server relative URL path, and the absolute
// URLs it can be fetched from, in configured base URL order.
type StateMeta struct {
	LastBlockNumber int64    `json:"last_block_number"`
	URLPath         string   `json:"url_path"`
	URLs            []string `json:"urls"`
}

// NewStateMeta builds the metadata of the snapshot with the given last
// block number across the given base URLs.
func NewStateMeta(lastBlockNumber int64, baseURLs []string) (*StateMeta, error) {
	artifactPath, err := SnapshotPath(lastBlockNumber)
	if err != nil {
		return nil, err
	}
	urlPath := URLPath(artifactPath)
	urls := make([]string, len(baseURLs))
	for i, base := range baseURLs {
		urls[i] = strings.TrimRight(base, "/") + urlPath
	}
	return &StateMeta{
		LastBlockNumber: lastBlockNumber,
		URLPath:         urlPath,
		URLs:            urls,
	}, nil
}
