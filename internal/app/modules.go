package app

import (
	"github.com/vk/bggflow/internal/registry"

	bggfetch "github.com/vk/bggflow/modules/bgg_fetch"
	catalogmod "github.com/vk/bggflow/modules/catalog"
	"github.com/vk/bggflow/modules/delay"
	envvars "github.com/vk/bggflow/modules/env_vars"
	gitcommit "github.com/vk/bggflow/modules/git_commit"
	httpclient "github.com/vk/bggflow/modules/http_client"
	prnt "github.com/vk/bggflow/modules/print"
	"github.com/vk/bggflow/modules/report"
	"github.com/vk/bggflow/modules/s3"
	tsnemod "github.com/vk/bggflow/modules/tsne"
	"github.com/vk/bggflow/modules/wrangle"
)

// coreModules is the default set of step modules compiled into the binary.
var coreModules = []registry.Module{
	&httpclient.Module{},
	&bggfetch.Module{},
	&wrangle.Module{},
	&tsnemod.Module{},
	&report.Module{},
	&delay.Module{},
	&gitcommit.Module{},
	&catalogmod.Module{},
	&s3.Module{},
	&envvars.Module{},
	&prnt.Module{},
}
