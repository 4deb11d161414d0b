package hdf5

import (
	"fmt"

	"gonum.org/v1/hdf5"

	shoal "github.com/sowasser/fish-shoaling-model"
)

// A Loader sequentially loads fish states from an HDF5 dataset
// written with the States dataset.
type Loader struct {
	i uint // index of current slice
	n uint // total number of slices

	data []shoal.State // data buffer

	file   *hdf5.File
	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// NewLoader opens a dataset in an HDF5 file and returns an initialized loader.
func NewLoader(filepath, dataset string) (_ *Loader, err error) {
	l := new(Loader)
	l.file, err = hdf5.OpenFile(filepath, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			l.close(&err)
		}
	}()

	l.dset, err = l.file.OpenDataset(dataset)
	if err != nil {
		return nil, err
	}
	l.fspace = l.dset.Space()
	dims, _, err := l.fspace.SimpleExtentDims()
	if err != nil {
		return nil, err
	}
	if len(dims) != 2 {
		return nil, fmt.Errorf("hdf5: expected 2 dimensions in %s, got %d", dataset, len(dims))
	}
	if dims[0] == 0 {
		return nil, fmt.Errorf("hdf5: no step recorded in %s", dataset)
	}
	l.n = dims[0]

	l.mspace, err = hdf5.CreateSimpleDataspace(dims[1:], nil)
	if err != nil {
		return nil, err
	}

	start := []uint{0, 0}
	count := []uint{1, dims[1]}
	if err := l.fspace.SelectHyperslab(start, nil, count, nil); err != nil {
		return nil, err
	}

	l.data = make([]shoal.State, dims[1])
	return l, nil
}

// Steps returns the number of recorded steps.
func (l *Loader) Steps() int {
	return int(l.n)
}

// Population returns the number of recorded fish.
func (l *Loader) Population() int {
	return len(l.data)
}

// Next loads the next recorded step into s
// and cycles when everything has already been loaded.
func (l *Loader) Next(s *shoal.Simulation) error {
	start := []uint{l.i, 0}
	if err := l.fspace.SetOffset(start); err != nil {
		return err
	}
	l.i = (l.i + 1) % l.n

	if err := l.dset.ReadSubset(&l.data, l.mspace, l.fspace); err != nil {
		return err
	}
	return s.SetStates(l.data)
}

// Close closes the underlying file.
func (l *Loader) Close() (err error) {
	l.close(&err)
	return err
}

// close closes everything that was opened, in reverse order.
func (l *Loader) close(err *error) {
	if l.mspace != nil {
		checkClose(err, l.mspace)
	}
	if l.fspace != nil {
		checkClose(err, l.fspace)
	}
	if l.dset != nil {
		checkClose(err, l.dset)
	}
	checkClose(err, l.file)
}
