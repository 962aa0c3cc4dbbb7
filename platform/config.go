package platform

import (
	"os"

	"github.com/sgostarter/libinterpolation/sensor"
	"gopkg.in/yaml.v3"
)

type FileConfig struct {
	Sensors []sensor.Config `yaml:"sensors" json:"sensors"`
}

func LoadConfigFile(file string) (cfgs []sensor.Config, err error) {
	d, err := os.ReadFile(file)
	if err != nil {
		return
	}

	return ParseConfig(d)
}

func ParseConfig(d []byte) (cfgs []sensor.Config, err error) {
	var fileCfg FileConfig

	err = yaml.Unmarshal(d, &fileCfg)
	if err != nil {
		return
	}

	if len(fileCfg.Sensors) == 0 {
		err = ErrEmptyConfigs

		return
	}

	cfgs = fileCfg.Sensors

	return
}
