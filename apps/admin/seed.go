package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/house"
	"github.com/osisproject0-hub/smaktal/core/resource"
	"github.com/osisproject0-hub/smaktal/core/skilltree"
	"github.com/osisproject0-hub/smaktal/core/tutor"
)

var defaultHouses = []house.House{
	{ID: "nusantara", Name: "Nusantara", TotalPoints: 12540},
	{ID: "garuda", Name: "Garuda", TotalPoints: 11890},
	{ID: "cendekia", Name: "Cendekia", TotalPoints: 11230},
	{ID: "pertiwi", Name: "Pertiwi", TotalPoints: 10850},
}

var defaultResources = []resource.Resource{
	{ID: "res1", Type: resource.TypeVideo, Title: "Manajemen Stres untuk Pelajar", Source: "YouTube", ImageID: "resource_video"},
	{ID: "res2", Type: resource.TypeArticle, Title: "Cara Belajar Efektif di Era Digital", Source: "Blog Sekolah", ImageID: "resource_article"},
	{ID: "res3", Type: resource.TypePodcast, Title: "Kesehatan Mental Remaja", Source: "Spotify", ImageID: "resource_podcast"},
}

var defaultTopics = []tutor.LearningTopic{
	{ID: "pemrograman-web", Label: "Pemrograman Web", Order: 1},
	{ID: "jaringan-dasar", Label: "Jaringan Dasar", Order: 2},
	{ID: "administrasi-server", Label: "Administrasi Server", Order: 3},
	{ID: "desain-grafis", Label: "Desain Grafis", Order: 4},
}

var defaultSkillTree = skilltree.Tree{
	ID:   "tkj",
	Name: "Teknik Komputer & Jaringan",
	Tiers: []skilltree.Tier{
		{ID: "dasar", Name: "Dasar", Order: 1, Skills: []skilltree.Skill{
			{ID: "sk01", Name: "Dasar Jaringan", Description: "Memahami konsep dasar jaringan komputer."},
			{ID: "sk02", Name: "Perakitan Komputer", Description: "Mampu merakit dan membongkar PC."},
		}},
		{ID: "menengah", Name: "Menengah", Order: 2, Skills: []skilltree.Skill{
			{ID: "sk03", Name: "Konfigurasi Router", Description: "Konfigurasi dasar router dan switch."},
			{ID: "sk04", Name: "Instalasi OS Jaringan", Description: "Instalasi sistem operasi server."},
			{ID: "sk05", Name: "Manajemen Kabel", Description: "Teknik crimping dan penataan kabel."},
		}},
		{ID: "lanjutan", Name: "Lanjutan", Order: 3, Skills: []skilltree.Skill{
			{ID: "sk06", Name: "Administrasi Server", Description: "Mengelola layanan server (Web, DNS, DHCP)."},
			{ID: "sk07", Name: "Keamanan Jaringan", Description: "Konfigurasi firewall dan deteksi intrusi."},
		}},
		{ID: "spesialis", Name: "Spesialis", Order: 4, Skills: []skilltree.Skill{
			{ID: "sk08", Name: "Cloud Computing", Description: "Dasar-dasar platform cloud (AWS, GCP, Azure)."},
		}},
	},
}

// seeder writes the reference data the portal starts with.
type seeder struct {
	houses    house.Repository
	resources resource.Repository
	topics    tutor.Repository
	skills    *skilltree.Service
}

type seedReport struct {
	Houses, Resources, Topics, Skills int
}

// seed is idempotent: existing houses keep their points, everything else is overwritten.
func (s *seeder) seed(ctx context.Context) (seedReport, error) {
	var report seedReport

	for _, h := range defaultHouses {
		_, err := s.houses.CreateHouse(ctx, h)
		switch {
		case err == nil:
			report.Houses++
		case errors.Cause(err) == core.ErrDocExists:
		default:
			return report, errors.Wrapf(err, "seeding house %s", h.ID)
		}
	}
	for _, r := range defaultResources {
		if err := s.resources.SaveResource(ctx, r); err != nil {
			return report, errors.Wrapf(err, "seeding resource %s", r.ID)
		}
		report.Resources++
	}
	for _, t := range defaultTopics {
		if err := s.topics.SaveTopic(ctx, t); err != nil {
			return report, errors.Wrapf(err, "seeding learning topic %s", t.ID)
		}
		report.Topics++
	}
	if err := s.skills.Seed(ctx, defaultSkillTree); err != nil {
		return report, errors.Wrap(err, "seeding skill tree")
	}
	report.Skills = defaultSkillTree.TotalSkills()
	return report, nil
}

func (cli *commandLine) seed() error {
	report, err := cli.seeder.seed(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "seeded %d houses, %d resources, %d learning topics and %d skills\n",
		report.Houses, report.Resources, report.Topics, report.Skills)
	return nil
}
