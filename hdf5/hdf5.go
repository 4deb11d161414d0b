// Package hdf5 records shoal simulations to HDF5 files and loads them back.
//
// A file contains one dataset per recorded quantity, whose first dimension
// is the step, and a "config" dataset whose attributes describe the run.
package hdf5

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"gonum.org/v1/hdf5"

	shoal "github.com/sowasser/fish-shoaling-model"
	"github.com/sowasser/fish-shoaling-model/stats"
)

// A Dataset stipulates how to generate data and where to store them in the HDF5 file.
type Dataset struct {
	// Name the name of the dataset in the HDF5 file.
	Name string

	// Val is a value of the same concrete type as the underlying type of the data.
	Val interface{}

	// Dims are the dimensions of the data for a single step.
	Dims []int

	// Data is a function that produces the data
	// as a pointer to a slice of row-major concrete values,
	// or a pointer to a single value if Dims is empty.
	Data func(s *shoal.Simulation) (interface{}, error)

	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// Config holds the parameters of the HDF5 driver.
type Config struct {
	Output   string       // path of output file
	Steps    int          // total number of steps
	Datasets []*Dataset   // list of datasets
	Meta     interface{}  // pointer to a struct whose fields are saved as attributes
	RunID    string       // identifier of the run, saved as an attribute
	Logger   *slog.Logger // nil means slog.Default()
}

// Run runs a simulation and saves data to an HDF5 file.
// Data are recorded before each step.
func Run(s *shoal.Simulation, conf *Config) (err error) {
	log := conf.Logger
	if log == nil {
		log = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(conf.Output), 0755); err != nil {
		return err
	}

	file, err := hdf5.CreateFile(conf.Output, hdf5.F_ACC_TRUNC)
	if err != nil {
		return err
	}
	defer checkClose(&err, file)

	if err := saveConfig(file, conf); err != nil {
		return err
	}

	for _, d := range conf.Datasets {
		if err := d.init(file, conf); err != nil {
			return err
		}
		defer checkClose(&err, d)
	}

	log.Info("recording", "output", conf.Output, "steps", conf.Steps, "datasets", len(conf.Datasets))
	tenth := conf.Steps / 10
	for k := uint(0); k < uint(conf.Steps); k++ {
		if tenth > 0 && int(k)%tenth == 0 {
			log.Debug("progress", "percent", 100*int(k)/conf.Steps)
		}

		for _, d := range conf.Datasets {
			start := make([]uint, len(d.Dims)+1)
			start[0] = k
			if err := d.fspace.SetOffset(start); err != nil {
				return err
			}
			data, err := d.Data(s)
			if err != nil {
				return fmt.Errorf("hdf5: %s at step %d: %w", d.Name, k, err)
			}
			if err := d.dset.WriteSubset(data, d.mspace, d.fspace); err != nil {
				return err
			}
		}

		s.Step()
	}
	log.Info("recorded", "output", conf.Output, "steps", conf.Steps)
	return nil
}

// States is a dataset of the states of all fish, named "fish".
func States(population int) *Dataset {
	return &Dataset{
		Name: "fish",
		Val:  shoal.State{},
		Dims: []int{population},
		Data: func(s *shoal.Simulation) (interface{}, error) {
			st := s.States()
			return &st, nil
		},
	}
}

// Statistics is a dataset of the shoal statistics, named "stats".
func Statistics() *Dataset {
	return &Dataset{
		Name: "stats",
		Val:  stats.Record{},
		Data: func(s *shoal.Simulation) (interface{}, error) {
			r, err := stats.Of(s)
			if err != nil {
				return nil, err
			}
			return &r, nil
		},
	}
}

// saveConfig creates a "config" dataset with a null dataspace whose attributes
// reflect the whole configuration plus some other appropriate metadata.
func saveConfig(file *hdf5.File, conf *Config) (err error) {
	null, err := hdf5.CreateDataspace(hdf5.S_NULL)
	if err != nil {
		return err
	}
	defer checkClose(&err, null)

	anytype, err := hdf5.NewDatatypeFromValue(0)
	if err != nil {
		return err
	}
	defer checkClose(&err, anytype)

	dset, err := file.CreateDataset("config", anytype, null)
	if err != nil {
		return err
	}
	defer checkClose(&err, dset)

	scalar, err := hdf5.CreateDataspace(hdf5.S_SCALAR)
	if err != nil {
		return err
	}
	defer checkClose(&err, scalar)

	now := time.Now().String()
	if err := writeAttr(dset, scalar, "Time", &now); err != nil {
		return err
	}
	if conf.RunID != "" {
		if err := writeAttr(dset, scalar, "RunID", &conf.RunID); err != nil {
			return err
		}
	}

	if conf.Meta == nil {
		return nil
	}
	v := reflect.ValueOf(conf.Meta).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		switch f.Kind() {
		case reflect.Struct:
			// flatten one level, e.g. embedded parameters
			for j := 0; j < f.NumField(); j++ {
				name := v.Type().Field(i).Name + "." + f.Type().Field(j).Name
				if err := writeAttr(dset, scalar, name, f.Field(j).Addr().Interface()); err != nil {
					return err
				}
			}
		case reflect.Slice, reflect.Map:
			// not representable as scalar attributes
		default:
			if err := writeAttr(dset, scalar, v.Type().Field(i).Name, f.Addr().Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeAttr writes the value pointed to by ptr as a scalar attribute of dset.
func writeAttr(dset *hdf5.Dataset, scalar *hdf5.Dataspace, name string, ptr interface{}) (err error) {
	dtype, err := hdf5.NewDatatypeFromValue(reflect.ValueOf(ptr).Elem().Interface())
	if err != nil {
		return fmt.Errorf("hdf5: attribute %s: %w", name, err)
	}
	defer checkClose(&err, dtype)

	attr, err := dset.CreateAttribute(name, dtype, scalar)
	if err != nil {
		return err
	}
	defer checkClose(&err, attr)

	return attr.Write(ptr, dtype)
}

// init creates the dataset and its dataspaces in file.
func (d *Dataset) init(file *hdf5.File, conf *Config) (err error) {
	dtype, err := hdf5.NewDatatypeFromValue(d.Val)
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	udims := make([]uint, len(d.Dims)+1)
	udims[0] = uint(conf.Steps)
	for i, n := range d.Dims {
		udims[i+1] = uint(n)
	}

	d.fspace, err = hdf5.CreateSimpleDataspace(udims, nil)
	if err != nil {
		return err
	}

	start := make([]uint, len(udims))
	count := make([]uint, len(udims))
	copy(count, udims)
	count[0] = 1

	if err := d.fspace.SelectHyperslab(start, nil, count, nil); err != nil {
		checkClose(&err, d.fspace)
		return err
	}

	if len(d.Dims) == 0 {
		d.mspace, err = hdf5.CreateDataspace(hdf5.S_SCALAR)
	} else {
		d.mspace, err = hdf5.CreateSimpleDataspace(udims[1:], nil)
	}
	if err != nil {
		checkClose(&err, d.fspace)
		return err
	}

	d.dset, err = file.CreateDataset(d.Name, dtype, d.fspace)
	if err != nil {
		checkClose(&err, d.fspace)
		checkClose(&err, d.mspace)
	}

	return err
}

// Close closes the HDF5 dataset and Dataspaces.
func (d *Dataset) Close() error {
	if err := d.dset.Close(); err != nil {
		return err
	}
	if err := d.mspace.Close(); err != nil {
		return err
	}
	if err := d.fspace.Close(); err != nil {
		return err
	}
	return nil
}

// checkClose checks for errors in deferred calls.
func checkClose(err *error, c io.Closer) {
	if cerr := c.Close(); *err == nil {
		*err = cerr
	}
}
