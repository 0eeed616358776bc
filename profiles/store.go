package profiles

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/bluetuith-org/bluectl/api/errorkinds"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Mode of profile files and their directory.
const (
	fileMode os.FileMode = 0o600
	dirMode  os.FileMode = 0o755
)

// Store keeps one file per profile in a directory.
// It does not lock the files: concurrent writers race, and the last one wins.
type Store struct {
	dir string
	log zerolog.Logger
}

// Listing is a stored profile, or the reason it could not be loaded.
type Listing struct {
	Profile Profile `json:"profile"`
	Issue   string  `json:"issue,omitempty"`
	Err     error   `json:"-"`
}

// NewStore returns a store for the profile directory.
func NewStore(dir string, log zerolog.Logger) *Store {
	return &Store{
		dir: dir,
		log: log.With().Str("component", "store").Logger(),
	}
}

// Dir returns the profile directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the path of the profile's file.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Save writes the profile, replacing any existing profile of the same name.
// The file is readable and writable by its owner only.
func (s *Store) Save(p Profile) error {
	ctx := fctx.WithMeta(context.Background(), "profile", p.Name, "dir", s.dir)

	if err := p.Validate(); err != nil {
		return err
	}

	data, _ := p.MarshalText()

	if err := os.MkdirAll(s.dir, dirMode); err != nil {
		return s.writeError(ctx, err, "profile-mkdir")
	}

	tmpPath := filepath.Join(s.dir, "."+p.Name+"."+uuid.NewString()+".tmp")

	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fileMode)
	if err != nil {
		return s.writeError(ctx, err, "profile-create")
	}
	defer os.Remove(tmpPath)

	// The umask applies to OpenFile, but not to Chmod.
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return s.writeError(ctx, err, "profile-chmod")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return s.writeError(ctx, err, "profile-write")
	}
	if err := tmp.Close(); err != nil {
		return s.writeError(ctx, err, "profile-close")
	}

	if err := os.Rename(tmpPath, s.Path(p.Name)); err != nil {
		return s.writeError(ctx, err, "profile-rename")
	}

	s.log.Debug().Str("profile", p.Name).Str("path", s.Path(p.Name)).Msg("profile saved")

	return nil
}

// Load reads and validates a profile.
// It returns an error wrapping errorkinds.ErrProfileNotFound if there is no such
// profile, and errorkinds.ErrProfileCorrupted if its addresses are malformed.
func (s *Store) Load(name string) (Profile, error) {
	if err := ValidateName(name); err != nil {
		return Profile{}, err
	}

	path := s.Path(name)

	info, err := os.Stat(path)
	if err == nil && !info.Mode().IsRegular() {
		err = fs.ErrNotExist
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Profile{}, fault.Wrap(errorkinds.ErrProfileNotFound,
				ftag.With(ftag.NotFound),
				fmsg.WithDesc("profile "+name+" not found",
					"Profile with given name does not exist."),
			)
		}

		return Profile{}, s.readError(err, name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, s.readError(err, name)
	}

	p, err := parseProfile(name, data)
	if err != nil {
		s.log.Warn().Str("profile", name).Str("path", path).Msg("corrupted profile")
		return Profile{}, err
	}

	return p, nil
}

// Exists reports whether a profile file with the name exists.
func (s *Store) Exists(name string) bool {
	_, err := os.Lstat(s.Path(name))
	return err == nil
}

// List loads every profile in the directory, sorted by name.
// Profiles which cannot be loaded are listed with their error.
func (s *Store) List() ([]Listing, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "profile-list", "dir", s.dir),
			ftag.With(ftag.Internal),
			fmsg.WithDesc("cannot read profile directory", "Cannot read the profile directory "+s.dir+"."),
		)
	}

	var listings []Listing
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || ValidateName(name) != nil {
			continue
		}

		listing := Listing{}

		listing.Profile, listing.Err = s.Load(name)
		if listing.Err != nil {
			listing.Profile = Profile{Name: name}
			listing.Issue = fmsg.GetIssue(listing.Err)
		}

		listings = append(listings, listing)
	}

	sort.Slice(listings, func(i, j int) bool {
		return listings[i].Profile.Name < listings[j].Profile.Name
	})

	return listings, nil
}

func (s *Store) writeError(ctx context.Context, err error, errorAt string) error {
	return fault.Wrap(err,
		fctx.With(ctx, "error_at", errorAt),
		ftag.With(ftag.Internal),
		fmsg.WithDesc("cannot write profile", "Cannot write the profile to "+s.dir+"."),
	)
}

func (s *Store) readError(err error, name string) error {
	return fault.Wrap(err,
		fctx.With(context.Background(), "error_at", "profile-read", "profile", name),
		ftag.With(ftag.Internal),
		fmsg.WithDesc("cannot read profile", "Cannot read the profile "+name+"."),
	)
}
