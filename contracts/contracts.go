/*
Package contracts provides access to compiled Roles and Presence contracts.

Compiled artifacts are expected in a build directory laid out as

	roles/contract.nef
	roles/manifest.json
	presence/contract.nef
	presence/manifest.json
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	rolesDir    = "roles"
	presenceDir = "presence"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about Neo contract read from the build output.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Set is a pair of contracts deployed together.
type Set struct {
	Roles    Contract
	Presence Contract
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")
)

// ReadDir reads contracts from the build directory in the local file system.
func ReadDir(dir string) (Set, error) {
	return Read(os.DirFS(dir))
}

// Read reads contracts from the given file system.
func Read(fsys fs.FS) (Set, error) {
	var (
		s   Set
		err error
	)

	s.Roles, err = readContractFromDir(fsys, rolesDir)
	if err != nil {
		return s, fmt.Errorf("read contract %s: %w", rolesDir, err)
	}

	s.Presence, err = readContractFromDir(fsys, presenceDir)
	if err != nil {
		return s, fmt.Errorf("read contract %s: %w", presenceDir, err)
	}

	return s, nil
}

func readContractFromDir(fsys fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS always uses "/", so filepath.Join() is not applicable.
	fNEF, err := fsys.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := fsys.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}
	if c.Manifest.Name == "" {
		return c, fmt.Errorf("%w: empty name", errInvalidManifest)
	}

	return c, nil
}
