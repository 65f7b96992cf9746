package sqlinline

const campaignColumns = `id, name, goal_cents, start_date, end_date, description, status, created_at`

const QInsertCampaign = `--sql dfd393c5-c251-4e78-b07c-b803f90b93ef
insert into campaigns (id, name, goal_cents, start_date, end_date, description, status, created_at)
values ($1, $2, $3, $4, $5, $6, $7, $8);
`

const QSelectCampaignByID = `--sql 5b2e9e16-1f7a-4231-8c64-52130cb6c363
select ` + campaignColumns + `
from campaigns
where id = $1;
`

const QSelectCampaignByName = `--sql 3459ce54-cc54-4664-94e0-4f100b4b4746
select ` + campaignColumns + `
from campaigns
where name = $1;
`

const QListCampaigns = `--sql 7ea8d8d2-c9bc-428b-86c7-99ba725c55b8
select ` + campaignColumns + `
from campaigns
where ($1 = '' or status = $1)
order by start_date desc, name;
`

const QUpdateCampaignStatus = `--sql 8c76e4cc-8884-4914-a008-d7b058a37501
update campaigns
set status = $2
where name = $1;
`
